package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可选包裹底层错误（Err）
//   - 按 Module + Code 判等，支持 errors.Is / errors.As
//
// 使用场景：
//   - 语料加载：DATA_LOAD, EMPTY_CORPUS
//   - 策略构造：INVALID_WEIGHT, INVALID_INPUT
//   - 向量查找：NOT_FOUND
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "EMPTY_CORPUS"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "rank"）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is 按 Module + Code 判等，Message 与 Err 不参与比较。
// 因此 errors.Is(err, ErrEmptyCorpus) 对任意消息的 EMPTY_CORPUS 错误都成立。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的第一个 DomainError，不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建包裹底层错误的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeDataLoad      = "DATA_LOAD"      // 存储内容不可读或格式错误
	ErrorCodeEmptyCorpus   = "EMPTY_CORPUS"   // 过滤后没有可用物品
	ErrorCodeInvalidWeight = "INVALID_WEIGHT" // 权重不满足约束
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 存储 / 语料模块
	ModuleProfile  = "profile"  // 用户画像模块
	ModuleRank     = "rank"     // 打分策略模块
	ModuleRerank   = "rerank"   // 重排模块
	ModulePipeline = "pipeline" // 编排模块
)

// 哨兵错误，用于 errors.Is 判断
var (
	// ErrDataLoad 表示持久化数据不可读或格式错误
	ErrDataLoad = NewDomainError(ModuleStore, ErrorCodeDataLoad, "store: data load failed")

	// ErrEmptyCorpus 表示过滤后语料为空
	ErrEmptyCorpus = NewDomainError(ModuleStore, ErrorCodeEmptyCorpus, "store: no valid items with vectors")

	// ErrVectorNotFound 表示向量查找未命中
	ErrVectorNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: item vector not found")

	// ErrInvalidWeight 表示 Advanced 策略权重非法
	ErrInvalidWeight = NewDomainError(ModuleRank, ErrorCodeInvalidWeight, "rank: invalid weights")

	// ErrMalformedProfile 表示用户阅读历史中没有任何可解析的物品
	ErrMalformedProfile = NewDomainError(ModuleProfile, ErrorCodeInvalidInput, "profile: no known items in read history")
)

// 通用错误检查函数

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsDataLoad 检查错误是否为 DATA_LOAD
func IsDataLoad(err error) bool { return hasCode(err, ErrorCodeDataLoad) }

// IsEmptyCorpus 检查错误是否为 EMPTY_CORPUS
func IsEmptyCorpus(err error) bool { return hasCode(err, ErrorCodeEmptyCorpus) }

// IsInvalidWeight 检查错误是否为 INVALID_WEIGHT
func IsInvalidWeight(err error) bool { return hasCode(err, ErrorCodeInvalidWeight) }
