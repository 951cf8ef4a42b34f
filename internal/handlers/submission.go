package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/getmentor/registration-api/internal/models"
	"github.com/gin-gonic/gin"
)

// decodeSubmission reads the request body into raw fields plus the optional
// photo. The returned cleanup must be called once the submission is handled.
func decodeSubmission(c *gin.Context, receivedAt time.Time) (*models.RegistrationSubmission, func(), error) {
	sub := &models.RegistrationSubmission{
		Fields:     map[string][]string{},
		ReceivedAt: receivedAt,
	}
	noop := func() {}

	// Media types are case-insensitive
	switch strings.ToLower(c.ContentType()) {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, noop, err
		}
		sub.Fields = form.Value

		photo, closer, err := openPhoto(form)
		if err != nil {
			_ = form.RemoveAll() //nolint:errcheck
			return nil, noop, err
		}
		sub.Photo = photo

		return sub, func() {
			if closer != nil {
				_ = closer.Close() //nolint:errcheck
			}
			_ = form.RemoveAll() //nolint:errcheck
		}, nil

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, noop, err
		}
		sub.Fields = c.Request.PostForm
		return sub, noop, nil

	case gin.MIMEJSON:
		fields, err := decodeJSONFields(c.Request)
		if err != nil {
			return nil, noop, err
		}
		sub.Fields = fields
		return sub, noop, nil

	default:
		// No recognised body: every field is absent
		return sub, noop, nil
	}
}

func openPhoto(form *multipart.Form) (*models.UploadedFile, multipart.File, error) {
	headers := form.File[models.FieldProfileUpload]
	switch len(headers) {
	case 0:
		return nil, nil, nil
	case 1:
	default:
		return nil, nil, fmt.Errorf("unexpected field: only one %s file is accepted", models.FieldProfileUpload)
	}

	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	return &models.UploadedFile{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, file, nil
}

// falsyAbsentFields treat a JSON false or 0 the same as a missing value
var falsyAbsentFields = map[string]bool{
	models.FieldDOB:      true,
	models.FieldCategory: true,
}

// decodeJSONFields flattens a JSON object into form-style values.
// Arrays become repeated values, null means absent and scalars are
// rendered as text.
func decodeJSONFields(r *http.Request) (map[string][]string, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	fields := make(map[string][]string, len(body))
	for key, raw := range body {
		switch v := raw.(type) {
		case nil:
		case bool, float64:
			if falsyAbsentFields[key] && (v == false || v == float64(0)) {
				continue
			}
			fields[key] = []string{jsonText(v)}
		case []any:
			values := make([]string, 0, len(v))
			for _, item := range v {
				values = append(values, jsonText(item))
			}
			fields[key] = values
		default:
			fields[key] = []string{jsonText(v)}
		}
	}
	return fields, nil
}

func jsonText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case map[string]any, []any:
		data, _ := json.Marshal(t) //nolint:errcheck
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}
