package shell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultBaseURL 后端默认地址
	DefaultBaseURL = "http://127.0.0.1:8000"

	textTimeout  = 60 * time.Second
	imageTimeout = 120 * time.Second
)

// ServerError 后端返回了非200状态码
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Body)
}

// RequestError 请求本身失败了(超时、连接拒绝等),和服务端错误区分展示
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client 问答后端的HTTP客户端。文本和图片请求使用不同的超时。
type Client struct {
	baseURL     string
	textClient  *http.Client
	imageClient *http.Client
}

// NewClient 创建客户端,baseURL为空时使用默认地址
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		textClient:  &http.Client{Timeout: textTimeout},
		imageClient: &http.Client{Timeout: imageTimeout},
	}
}

// AskText 发送文本问题,返回answer字段内容
func (c *Client) AskText(question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", &RequestError{Err: err}
	}

	resp, err := c.textClient.Post(c.baseURL+"/query/text", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	return parseAnswer(resp)
}

// AskImage 上传图片和可选问题,返回answer字段内容
func (c *Client) AskImage(path string, question string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", &RequestError{Err: err}
	}
	if err := writer.WriteField("question", question); err != nil {
		return "", &RequestError{Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &RequestError{Err: err}
	}

	resp, err := c.imageClient.Post(c.baseURL+"/query/image", writer.FormDataContentType(), &body)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	return parseAnswer(resp)
}

// parseAnswer 解析后端响应,非200原样带回状态码和响应体
func parseAnswer(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ServerError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var parsed struct {
		Answer *string `json:"answer"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &RequestError{Err: err}
	}
	if parsed.Answer == nil {
		return "No answer field.", nil
	}
	return *parsed.Answer, nil
}
