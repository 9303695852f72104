package image

// 图片格式魔数签名
var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"gif":  {0x47, 0x49, 0x46, 0x38},
	"webp": {0x52, 0x49, 0x46, 0x46}, // RIFF,还需检查WEBP标识
	"bmp":  {0x42, 0x4D},
	"tiff": {0x49, 0x49, 0x2A, 0x00},
}

var tiffBigEndian = []byte{0x4D, 0x4D, 0x00, 0x2A}

// DetectFormat 根据文件头检测图片格式,未知返回空字符串
func DetectFormat(data []byte) string {
	for format, signature := range imageSignatures {
		if !hasPrefix(data, signature) {
			continue
		}
		// RIFF容器需要进一步确认WEBP标识
		if format == "webp" {
			if len(data) >= 12 && string(data[8:12]) == "WEBP" {
				return "webp"
			}
			continue
		}
		return format
	}
	if hasPrefix(data, tiffBigEndian) {
		return "tiff"
	}
	return ""
}

// IsValidImage 检查字节是否以已知图片格式的文件头开始
func IsValidImage(data []byte) bool {
	return DetectFormat(data) != ""
}

func hasPrefix(data, signature []byte) bool {
	if len(data) < len(signature) {
		return false
	}
	for i, b := range signature {
		if data[i] != b {
			return false
		}
	}
	return true
}
