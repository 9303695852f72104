package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/configs"
	"github.com/Abdul-Raafay04/Multimodal-AI-Chatbot/src/shell"

	"github.com/joho/godotenv"
)

// 允许上传的图片扩展名,和前端文件选择器保持一致
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func main() {
	serverFlag := flag.String("server", "", "后端地址,默认读取配置文件的web.base_url")
	imageFlag := flag.String("image", "", "要提问的图片路径(png/jpg/jpeg)")
	questionFlag := flag.String("question", "", "问题内容,图片模式下可留空")
	flag.Parse()

	_ = godotenv.Load()

	client := shell.NewClient(resolveBaseURL(*serverFlag))

	// 单次模式:给了图片或问题就执行一次后退出
	if *imageFlag != "" {
		askImage(client, *imageFlag, *questionFlag)
		return
	}
	if *questionFlag != "" {
		askText(client, *questionFlag)
		return
	}

	// 交互模式
	fmt.Println("Multimodal AI Chatbot")
	fmt.Println("输入问题直接提问;输入 /image <路径> [问题] 对图片提问;输入 /quit 退出")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit" || line == "/exit":
			return
		case strings.HasPrefix(line, "/image"):
			args := strings.Fields(strings.TrimPrefix(line, "/image"))
			if len(args) == 0 {
				fmt.Println("Please upload an image.")
				continue
			}
			askImage(client, args[0], strings.Join(args[1:], " "))
		case line == "":
			fmt.Println("Please enter a question.")
		default:
			askText(client, line)
		}
	}
}

// resolveBaseURL 优先级:命令行参数 > 配置文件 > 内置默认值
func resolveBaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if config, _, err := configs.LoadConfig(); err == nil {
		return config.Web.BaseURL
	}
	return shell.DefaultBaseURL
}

func askText(client *shell.Client, question string) {
	if strings.TrimSpace(question) == "" {
		fmt.Println("Please enter a question.")
		return
	}

	fmt.Println("Querying backend...")
	answer, err := client.AskText(question)
	if err != nil {
		renderError(err)
		return
	}
	fmt.Println("Response:")
	fmt.Println(answer)
}

func askImage(client *shell.Client, path string, question string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Println("Please upload an image.")
		return
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		fmt.Printf("Unsupported file type %q, use png/jpg/jpeg.\n", ext)
		return
	}

	fmt.Println("Querying backend...")
	answer, err := client.AskImage(path, question)
	if err != nil {
		renderError(err)
		return
	}
	fmt.Printf("Uploaded image: %s\n", path)
	fmt.Println("Response:")
	fmt.Println(answer)
}

// renderError 服务端错误和请求失败分开展示
func renderError(err error) {
	var serverErr *shell.ServerError
	var requestErr *shell.RequestError
	switch {
	case errors.As(err, &serverErr):
		fmt.Println(serverErr.Error())
	case errors.As(err, &requestErr):
		fmt.Println(requestErr.Error())
	default:
		fmt.Printf("Request failed: %v\n", err)
	}
}
