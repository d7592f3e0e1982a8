package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/angelmondragon/hearth-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

// FilePart is one uploaded image forwarded to the hotel API.
type FilePart struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// RoomForm is the multipart payload for creating or updating a room.
type RoomForm struct {
	Title          string
	RoomNumber     string
	Description    string
	Configurations []types.RoomConfiguration
	Status         enums.RoomStatus
	Amenities      []string
	ImagesToKeep   []string
	KeepFrontView  bool
	FrontView      *FilePart
	Pictures       []FilePart
}

// GalleryForm is the multipart payload for creating or updating a gallery entry.
type GalleryForm struct {
	Caption      string
	Category     enums.GalleryCategory
	ImagesToKeep []string
	Pictures     []FilePart
}

type multipartField struct {
	name  string
	value string
}

type multipartFile struct {
	field string
	part  FilePart
}

func (f RoomForm) parts() ([]multipartField, []multipartFile, error) {
	configurations, err := json.Marshal(f.Configurations)
	if err != nil {
		return nil, nil, fmt.Errorf("encode configurations: %w", err)
	}
	amenities, err := json.Marshal(nonNil(f.Amenities))
	if err != nil {
		return nil, nil, fmt.Errorf("encode amenities: %w", err)
	}
	keep, err := json.Marshal(nonNil(f.ImagesToKeep))
	if err != nil {
		return nil, nil, fmt.Errorf("encode images to keep: %w", err)
	}

	fields := []multipartField{
		{"title", f.Title},
		{"roomNumber", f.RoomNumber},
		{"description", f.Description},
		{"configurations", string(configurations)},
		{"status", f.Status.String()},
		{"amenities", string(amenities)},
		{"imagesToKeep", string(keep)},
	}
	if f.KeepFrontView && f.FrontView == nil {
		fields = append(fields, multipartField{"keepFrontView", "true"})
	}

	files := make([]multipartFile, 0, len(f.Pictures)+1)
	if f.FrontView != nil {
		files = append(files, multipartFile{field: "frontViewPicture", part: *f.FrontView})
	}
	for _, p := range f.Pictures {
		files = append(files, multipartFile{field: "pictures", part: p})
	}
	return fields, files, nil
}

func (f GalleryForm) parts() ([]multipartField, []multipartFile, error) {
	keep, err := json.Marshal(nonNil(f.ImagesToKeep))
	if err != nil {
		return nil, nil, fmt.Errorf("encode images to keep: %w", err)
	}
	fields := []multipartField{
		{"caption", f.Caption},
		{"category", f.Category.String()},
		{"imagesToKeep", string(keep)},
	}
	files := make([]multipartFile, 0, len(f.Pictures))
	for _, p := range f.Pictures {
		files = append(files, multipartFile{field: "pictures", part: p})
	}
	return fields, files, nil
}

// multipartRequest streams the form through a pipe so large uploads are not
// buffered in memory.
func multipartRequest(operation, method, path, token string, fields []multipartField, files []multipartFile) request {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, fields, files)
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		_ = pw.CloseWithError(err)
	}()

	return request{
		operation:   operation,
		method:      method,
		path:        path,
		token:       token,
		body:        pr,
		contentType: mw.FormDataContentType(),
	}
}

func writeMultipart(mw *multipart.Writer, fields []multipartField, files []multipartFile) error {
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.part.Filename))
		contentType := f.part.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		w, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.field, err)
		}
		if f.part.Content == nil {
			continue
		}
		if _, err := io.Copy(w, f.part.Content); err != nil {
			return fmt.Errorf("copy part %s: %w", f.part.Filename, err)
		}
	}
	return nil
}

func (c *Client) sendForm(ctx context.Context, operation, method, path, token string, fields []multipartField, files []multipartFile) (*MessageResult, error) {
	var result MessageResult
	status, err := c.do(ctx, multipartRequest(operation, method, path, token, fields, files), &result)
	if err != nil {
		return nil, err
	}
	result.StatusCode = status
	return &result, nil
}

// CreateRoom posts a new room to POST /api/admin/create-room.
func (c *Client) CreateRoom(ctx context.Context, token string, form RoomForm) (*MessageResult, error) {
	fields, files, err := form.parts()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode room form")
	}
	return c.sendForm(ctx, "create_room", http.MethodPost, "/api/admin/create-room", token, fields, files)
}

// UpdateRoom replaces a room via PUT /api/admin/room/:id.
func (c *Client) UpdateRoom(ctx context.Context, token, id string, form RoomForm) (*MessageResult, error) {
	path, err := idPath("/api/admin/room/", id)
	if err != nil {
		return nil, err
	}
	fields, files, err := form.parts()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode room form")
	}
	return c.sendForm(ctx, "update_room", http.MethodPut, path, token, fields, files)
}

// DeleteRoom removes a room via DELETE /api/admin/room/:id.
func (c *Client) DeleteRoom(ctx context.Context, token, id string) (*MessageResult, error) {
	path, err := idPath("/api/admin/room/", id)
	if err != nil {
		return nil, err
	}
	var result MessageResult
	status, err := c.do(ctx, request{operation: "delete_room", method: http.MethodDelete, path: path, token: token}, &result)
	if err != nil {
		return nil, err
	}
	result.StatusCode = status
	return &result, nil
}

// CreateGallery posts a gallery entry to POST /api/admin/post-gallery.
func (c *Client) CreateGallery(ctx context.Context, token string, form GalleryForm) (*MessageResult, error) {
	fields, files, err := form.parts()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gallery form")
	}
	return c.sendForm(ctx, "create_gallery", http.MethodPost, "/api/admin/post-gallery", token, fields, files)
}

// UpdateGallery replaces a gallery entry via PUT /api/admin/gallery/:id.
func (c *Client) UpdateGallery(ctx context.Context, token, id string, form GalleryForm) (*MessageResult, error) {
	path, err := idPath("/api/admin/gallery/", id)
	if err != nil {
		return nil, err
	}
	fields, files, err := form.parts()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gallery form")
	}
	return c.sendForm(ctx, "update_gallery", http.MethodPut, path, token, fields, files)
}

func idPath(prefix, id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "id is required")
	}
	return prefix + url.PathEscape(trimmed), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
