package query

// TextQueryRequest 文本问答请求体。
// Question用指针区分"字段缺失"和"空字符串",缺失才是校验错误。
type TextQueryRequest struct {
	Question *string `json:"question"`
}

// QueryResponse 问答成功响应
type QueryResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse 统一的错误信封
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status string `json:"status"`
}
