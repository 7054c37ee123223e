package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type sample struct {
	Kind string `json:"type" validate:"required,oneof=pdf doc"`
	Name string `json:"name" validate:"required"`
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	fields := Struct(&sample{Kind: "exe"})
	if fields == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := fields["type"]; !ok {
		t.Fatalf("expected error keyed by json name, got %v", fields)
	}
	if _, ok := fields["name"]; !ok {
		t.Fatalf("expected name error, got %v", fields)
	}
}

func TestStructPasses(t *testing.T) {
	if fields := Struct(&sample{Kind: "pdf", Name: "syllabus.pdf"}); fields != nil {
		t.Fatalf("unexpected errors: %v", fields)
	}
}

type bindSample struct {
	Role string `json:"role" binding:"required,oneof=teacher student"`
}

func TestBindTranslatesErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	var got *BindError
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req bindSample
		got = Bind(c, &req)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Fields["role"] == "" || got.Malformed {
		t.Fatalf("expected role error, got %+v", got)
	}
}

func TestBindRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	var got *BindError
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req bindSample
		got = Bind(c, &req)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"role":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Fields["detail"] == "" || !got.Malformed {
		t.Fatalf("expected malformed detail error, got %+v", got)
	}
}

func TestBindNamesWrongTypeField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	var got *BindError
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req bindSample
		got = Bind(c, &req)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"role":5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Malformed {
		t.Fatalf("expected field error, got %+v", got)
	}
	if got.Fields["role"] != "role must be a string" {
		t.Fatalf("unexpected fields: %v", got.Fields)
	}
}
