package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"social-feed/services/social/internal/entity"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// readImage opens the uploaded image field and checks its size and sniffed
// type. The caller closes the returned file.
func readImage(c *gin.Context, field string, maxSize int64) (*entity.Image, multipart.File, *entity.ValidationError) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, entity.NewValidationError(field, fmt.Sprintf("The %s field is required.", field))
	}
	if maxSize > 0 && header.Size > maxSize {
		return nil, nil, entity.NewValidationError(field,
			fmt.Sprintf("The %s field must not be greater than %d kilobytes.", field, maxSize/1024))
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, entity.NewValidationError(field, fmt.Sprintf("The %s failed to upload.", field))
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		file.Close()
		return nil, nil, entity.NewValidationError(field, fmt.Sprintf("The %s failed to upload.", field))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, entity.NewValidationError(field, fmt.Sprintf("The %s failed to upload.", field))
	}

	var contentType, extension string
	for candidate, ext := range allowedImageTypes {
		if mtype.Is(candidate) {
			contentType, extension = candidate, ext
			break
		}
	}
	if contentType == "" {
		file.Close()
		verr := entity.NewValidationError(field, fmt.Sprintf("The %s field must be an image.", field))
		verr.Add(field, fmt.Sprintf("The %s field must be a file of type: jpeg, png, jpg, gif.", field))
		return nil, nil, verr
	}

	return &entity.Image{
		Reader:      file,
		Size:        header.Size,
		ContentType: contentType,
		Extension:   extension,
	}, file, nil
}

// merge folds other into v, allocating when v is nil.
func merge(v, other *entity.ValidationError) *entity.ValidationError {
	if other == nil {
		return v
	}
	if v == nil {
		v = &entity.ValidationError{}
	}
	for field, messages := range other.Fields {
		for _, message := range messages {
			v.Add(field, message)
		}
	}
	return v
}
