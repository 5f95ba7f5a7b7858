package dto

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindJSON(t *testing.T, body string, obj interface{}) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(obj)
}

func TestMangaStatusClosedEnum(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"连载中", `{"title":"一拳超人","status":"ongoing"}`, true},
		{"已完结", `{"title":"一拳超人","status":"completed"}`, true},
		{"缺省状态", `{"title":"一拳超人"}`, true},
		{"枚举之外的状态", `{"title":"一拳超人","status":"hiatus"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MangaCreateRequest
			err := bindJSON(t, tt.body, &req)
			if tt.wantOK && err != nil {
				t.Errorf("应通过校验: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Errorf("应拒绝状态 %s", tt.body)
			}
		})
	}
}
