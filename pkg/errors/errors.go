package errors

import "errors"

// 跨层共享的存储错误：Repository 负责把驱动错误翻译成这些哨兵值，
// Service 层据此映射为业务错误，无需感知 MongoDB 驱动细节。
var (
	// ErrDuplicateKey 唯一索引冲突（E11000）
	ErrDuplicateKey = errors.New("唯一约束冲突")
	// ErrInvalidID ID 不是合法的 ObjectID 十六进制串
	ErrInvalidID = errors.New("无效的 ID")
)
