package collector

import "errors"

// ErrorKind 区分抓取失败的四种类型，调用方据此决定提示与处理方式
type ErrorKind int

const (
	// KindConfiguration 缺少 API key，未发起任何网络请求
	KindConfiguration ErrorKind = iota
	// KindTransport 网络层失败（连接失败、超时等）
	KindTransport
	// KindUpstream NewsAPI 返回了非 200 状态
	KindUpstream
	// KindDecode 状态码正常但响应体无法解析
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError 是 Fetch 返回的唯一错误类型，带 Kind 标签
type FetchError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrKind 从错误链中取出 FetchError 的 Kind
func ErrKind(err error) (ErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
