package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestAllow(t *testing.T) {
	t.Run("限额内全部放行", func(t *testing.T) {
		limiter := NewLimiter()
		for i := 0; i < 10; i++ {
			if !limiter.Allow("text", "1.2.3.4", 10) {
				t.Fatalf("request %d should be allowed", i+1)
			}
		}
	})

	t.Run("第11个请求被拒绝", func(t *testing.T) {
		limiter := NewLimiter()
		for i := 0; i < 10; i++ {
			limiter.Allow("text", "1.2.3.4", 10)
		}
		if limiter.Allow("text", "1.2.3.4", 10) {
			t.Fatal("11th request should be denied")
		}
	})

	t.Run("图片端点第6个请求被拒绝", func(t *testing.T) {
		limiter := NewLimiter()
		for i := 0; i < 5; i++ {
			if !limiter.Allow("image", "1.2.3.4", 5) {
				t.Fatalf("request %d should be allowed", i+1)
			}
		}
		if limiter.Allow("image", "1.2.3.4", 5) {
			t.Fatal("6th request should be denied")
		}
	})

	t.Run("不同客户端互不影响", func(t *testing.T) {
		limiter := NewLimiter()
		for i := 0; i < 10; i++ {
			limiter.Allow("text", "1.2.3.4", 10)
		}
		if !limiter.Allow("text", "5.6.7.8", 10) {
			t.Fatal("a different client should not be limited")
		}
	})

	t.Run("不同端点互不影响", func(t *testing.T) {
		limiter := NewLimiter()
		for i := 0; i < 10; i++ {
			limiter.Allow("text", "1.2.3.4", 10)
		}
		if !limiter.Allow("image", "1.2.3.4", 5) {
			t.Fatal("a different scope should not be limited")
		}
	})

	t.Run("limit为0表示不限流", func(t *testing.T) {
		limiter := NewLimiter()
		for i := 0; i < 100; i++ {
			if !limiter.Allow("health", "1.2.3.4", 0) {
				t.Fatal("limit 0 should never deny")
			}
		}
	})
}

func TestAllowSlidingWindow(t *testing.T) {
	limiter := NewLimiter()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		limiter.Allow("text", "1.2.3.4", 10)
	}
	if limiter.Allow("text", "1.2.3.4", 10) {
		t.Fatal("window is full, request should be denied")
	}

	// 窗口滑过一分钟后,旧记录被淘汰
	now = now.Add(61 * time.Second)
	if !limiter.Allow("text", "1.2.3.4", 10) {
		t.Fatal("request after window expiry should be allowed")
	}

	// 半分钟后窗口仍然有之前的记录
	limiter2 := NewLimiter()
	now2 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter2.now = func() time.Time { return now2 }
	for i := 0; i < 10; i++ {
		limiter2.Allow("text", "1.2.3.4", 10)
	}
	now2 = now2.Add(30 * time.Second)
	if limiter2.Allow("text", "1.2.3.4", 10) {
		t.Fatal("request inside the sliding window should still be denied")
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewLimiter()
	engine := gin.New()
	engine.GET("/limited", Middleware(limiter, "limited", 2), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	doRequest := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		engine.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := doRequest(); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	w := doRequest()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body["error"] != "Rate limit exceeded: 2 per minute" {
		t.Errorf("error = %q", body["error"])
	}
}

func BenchmarkAllow(b *testing.B) {
	limiter := NewLimiter()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("text", "1.2.3.4", 1000000)
	}
}
