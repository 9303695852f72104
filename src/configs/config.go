package configs

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 主配置结构
type Config struct {
	Server struct {
		IP   string `yaml:"ip"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		LogFormat string `yaml:"log_format"`
		LogLevel  string `yaml:"log_level"`
		LogDir    string `yaml:"log_dir"`
		LogFile   string `yaml:"log_file"`
	} `yaml:"log"`

	Web struct {
		// BaseURL is the address the shell client uses to reach the backend.
		BaseURL string `yaml:"base_url"`
	} `yaml:"web"`

	SelectedModule map[string]string `yaml:"selected_module"`

	LLM        map[string]LLMConfig        `yaml:"LLM"`
	Classifier map[string]ClassifierConfig `yaml:"Classifier"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// LLMConfig 补全模型配置结构
type LLMConfig struct {
	Type        string                 `yaml:"type"`
	ModelName   string                 `yaml:"model_name"`
	BaseURL     string                 `yaml:"url"`
	APIKey      string                 `yaml:"api_key"`
	Temperature float64                `yaml:"temperature"`
	MaxTokens   int                    `yaml:"max_tokens"`
	Extra       map[string]interface{} `yaml:",inline"`
}

// ClassifierConfig 零样本图片分类器配置结构
type ClassifierConfig struct {
	Type      string                 `yaml:"type"`
	ModelName string                 `yaml:"model_name"`
	BaseURL   string                 `yaml:"url"`
	APIKey    string                 `yaml:"api_key"`
	Security  SecurityConfig         `yaml:"security"`
	Extra     map[string]interface{} `yaml:",inline"`
}

// SecurityConfig 图片校验限制
type SecurityConfig struct {
	MaxFileSize    int64    `yaml:"max_file_size"` // bytes
	MaxPixels      int64    `yaml:"max_pixels"`
	MaxWidth       int      `yaml:"max_width"`
	MaxHeight      int      `yaml:"max_height"`
	AllowedFormats []string `yaml:"allowed_formats"`
}

// RateLimitConfig 每客户端每分钟的请求上限
type RateLimitConfig struct {
	Default int `yaml:"default"`
	Text    int `yaml:"text"`
	Image   int `yaml:"image"`
}

// LoadConfig 从文件加载配置,默认使用.config.yaml
func LoadConfig() (*Config, string, error) {
	path := ".config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, path, err
	}
	config.applyDefaults()

	return config, path, nil
}

func (c *Config) applyDefaults() {
	if c.Server.IP == "" {
		c.Server.IP = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Log.LogDir == "" {
		c.Log.LogDir = "logs"
	}
	if c.Log.LogFile == "" {
		c.Log.LogFile = "server.log"
	}
	if c.Web.BaseURL == "" {
		c.Web.BaseURL = "http://127.0.0.1:8000"
	}
	if c.RateLimit.Default == 0 {
		c.RateLimit.Default = 10
	}
	if c.RateLimit.Text == 0 {
		c.RateLimit.Text = c.RateLimit.Default
	}
	if c.RateLimit.Image == 0 {
		c.RateLimit.Image = 5
	}
}

// ResolveSecret 解析配置里的 $ENV_NAME 形式的凭据引用
func ResolveSecret(value string) (string, error) {
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}
	name := strings.TrimPrefix(value, "$")
	resolved := os.Getenv(name)
	if resolved == "" {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return resolved, nil
}
