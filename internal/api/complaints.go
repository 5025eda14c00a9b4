package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/civicdesk/civicdesk/internal/errors"
)

// MaxImages is the client-side cap on images per complaint
const MaxImages = 3

// DefaultPageSize matches the backend's listing default
const DefaultPageSize = 10

// Image is a photo queued for upload with a complaint
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Digest returns the BLAKE3 digest of the image contents, used to reject
// the same photo attached twice to one submission
func (i Image) Digest() string {
	sum := blake3.Sum256(i.Data)
	return hex.EncodeToString(sum[:])
}

// LoadImage reads an image file from disk, inferring its content type from
// the extension
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, errors.Wrap(errors.ErrCodeComplaintImageRead, fmt.Sprintf("read image: %s", path), err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return Image{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// ListMine fetches one page of the current user's complaints. An empty
// status means no filter.
func (c *Client) ListMine(ctx context.Context, status ComplaintStatus, page, size int) (*ComplaintPage, error) {
	if size <= 0 {
		size = DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	if status != "" {
		query.Set("status", string(status))
	}

	var result ComplaintPage
	if err := c.doJSON(ctx, http.MethodGet, "/citizen/complaints", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByID fetches a single complaint
func (c *Client) GetByID(ctx context.Context, id int64) (*Complaint, error) {
	var result Complaint
	path := fmt.Sprintf("/api/complaints/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create submits a new complaint with up to MaxImages photos. The request is
// multipart: one JSON-typed part named "complaint" plus one file part named
// "files" per image. Validation failures are rejected before any network I/O.
func (c *Client) Create(ctx context.Context, draft ComplaintDraft, images []Image) (*Complaint, error) {
	if err := validateDraft(draft, images); err != nil {
		return nil, err
	}

	body, contentType, err := encodeComplaintForm(draft, images)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/citizen/complaints/create", nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIRequest, "POST /citizen/complaints/create", err)
	}

	var result Complaint
	if err := c.parseEnvelope(resp, "/citizen/complaints/create", &result); err != nil {
		return nil, err
	}

	c.logger.Info("complaint submitted", "id", result.ID, "type", string(result.ComplaintType), "images", len(images))
	return &result, nil
}

// Attachment fetches the raw bytes of a complaint image
func (c *Client) Attachment(ctx context.Context, id int64) ([]byte, error) {
	return c.doRaw(ctx, fmt.Sprintf("/api/complaints/attachments/%d", id))
}

func validateDraft(draft ComplaintDraft, images []Image) error {
	if strings.TrimSpace(draft.Title) == "" {
		return errors.New(errors.ErrCodeComplaintMissingField, "title must not be empty")
	}
	if strings.TrimSpace(draft.Description) == "" {
		return errors.New(errors.ErrCodeComplaintMissingField, "description must not be empty")
	}
	if !draft.ComplaintType.Valid() {
		valid := make([]string, 0, len(ComplaintTypes()))
		for _, t := range ComplaintTypes() {
			valid = append(valid, string(t))
		}
		return errors.NewInvalidComplaintTypeError(string(draft.ComplaintType), valid)
	}
	if len(images) > MaxImages {
		return errors.NewTooManyImagesError(len(images), MaxImages)
	}

	seen := make(map[string]string, len(images))
	for _, img := range images {
		digest := img.Digest()
		if first, dup := seen[digest]; dup {
			return errors.New(errors.ErrCodeComplaintDuplicateImage,
				fmt.Sprintf("image %s is identical to %s", img.FileName, first))
		}
		seen[digest] = img.FileName
	}

	return nil
}

// encodeComplaintForm builds the multipart body: the backend distinguishes
// the complaint from its photos by part name
func encodeComplaintForm(draft ComplaintDraft, images []Image) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	complaintJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeAPIRequest, "marshal complaint", err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="complaint"`)
	header.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeAPIRequest, "create complaint part", err)
	}
	if _, err := part.Write(complaintJSON); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeAPIRequest, "write complaint part", err)
	}

	for i, img := range images {
		name := img.FileName
		if name == "" {
			name = fmt.Sprintf("image_%d.jpg", i)
		}
		contentType := img.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}

		fileHeader := textproto.MIMEHeader{}
		fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, name))
		fileHeader.Set("Content-Type", contentType)

		filePart, err := writer.CreatePart(fileHeader)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeAPIRequest, fmt.Sprintf("create file part %s", name), err)
		}
		if _, err := filePart.Write(img.Data); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeAPIRequest, fmt.Sprintf("write file part %s", name), err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeAPIRequest, "finalize multipart body", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
