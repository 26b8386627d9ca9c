package handler

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/domain"
)

type part struct {
	field, filename, contentType, body string
}

func multipartContext(t *testing.T, target string, fields map[string]string, files ...part) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = pw.Write([]byte(f.body))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return newContext(http.MethodPost, target, &buf, w.FormDataContentType())
}

func TestCategoryHandler_Create_WithIcon(t *testing.T) {
	svc := &stubCategoryService{}
	c, rec := multipartContext(t, "/api/categories",
		map[string]string{"name": "Work", "color": "#112233"},
		part{"icon", "work.png", "image/png", "PNGDATA"})

	if err := NewCategoryHandler(svc).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.name != "Work" || svc.color != "#112233" {
		t.Fatalf("unexpected fields %q %q", svc.name, svc.color)
	}
	if svc.icon.ContentType != "image/png" || svc.icon.Filename != "work.png" || svc.iconBody != "PNGDATA" {
		t.Fatalf("unexpected icon %+v body %q", svc.icon, svc.iconBody)
	}
}

func TestCategoryHandler_Create_WithoutIcon(t *testing.T) {
	svc := &stubCategoryService{}
	c, _ := multipartContext(t, "/api/categories", map[string]string{"name": "Home"})

	if err := NewCategoryHandler(svc).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.icon.Body != nil {
		t.Fatal("expected no icon")
	}
}

func TestCategoryHandler_Create_Validation(t *testing.T) {
	c, _ := multipartContext(t, "/api/categories", map[string]string{"name": "Home", "color": "blue"})

	err := NewCategoryHandler(&stubCategoryService{}).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestCategoryHandler_Create_UnsupportedIconPropagates(t *testing.T) {
	svc := &stubCategoryService{err: domain.ErrUnsupportedFileType}
	c, _ := multipartContext(t, "/api/categories",
		map[string]string{"name": "Work"},
		part{"icon", "notes.txt", "text/plain", "hello"})

	if err := NewCategoryHandler(svc).Create(c); !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestAttachmentHandler_Create(t *testing.T) {
	svc := &stubAttachmentService{}
	c, rec := multipartContext(t, "/api/attachments",
		map[string]string{"task_id": "12"},
		part{"att_file", "notes.TXT", "text/plain", "hello"})
	asUser(c, 3, domain.RoleUser)

	if err := NewAttachmentHandler(svc).Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.userID != 3 || svc.taskID != 12 || svc.file.Filename != "notes.TXT" || svc.file.Size != 5 {
		t.Fatalf("unexpected call: user=%d task=%d file=%+v", svc.userID, svc.taskID, svc.file)
	}
}

func TestAttachmentHandler_Create_MissingFile(t *testing.T) {
	c, _ := multipartContext(t, "/api/attachments", map[string]string{"task_id": "12"})
	asUser(c, 3, domain.RoleUser)

	err := NewAttachmentHandler(&stubAttachmentService{}).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAttachmentHandler_Create_ForbiddenPropagates(t *testing.T) {
	svc := &stubAttachmentService{err: domain.ErrForbidden}
	c, _ := multipartContext(t, "/api/attachments",
		map[string]string{"task_id": "12"},
		part{"att_file", "a.pdf", "application/pdf", "%PDF"})
	asUser(c, 3, domain.RoleUser)

	if err := NewAttachmentHandler(svc).Create(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
