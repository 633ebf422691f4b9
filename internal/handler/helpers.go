package handler

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

func isURLEncoded(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationForm)
}

// formValues reads a multipart or urlencoded body plus the named file, if sent.
func formValues(c *fiber.Ctx, fileField string) (map[string][]string, *multipart.FileHeader, error) {
	if isURLEncoded(c) {
		values := map[string][]string{}
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			values[string(key)] = append(values[string(key)], string(value))
		})
		return values, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, errInvalidBody
	}
	var file *multipart.FileHeader
	if files := form.File[fileField]; len(files) > 0 {
		file = files[0]
	}
	return form.Value, file, nil
}

func first(values map[string][]string, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	s := v[0]
	return &s
}
