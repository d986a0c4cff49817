package restclient

import (
	"fmt"
	"math/rand"
	"net/url"
	"sort"
	"strings"
)

const (
	contentTypeHeader     = "Content-Type"
	contentTypeForm       = "application/x-www-form-urlencoded"
	contentTypeMultipart  = "multipart/form-data"
	contentDispositionHdr = "Content-Disposition: form-data"
	lineEnding            = "\r\n"
	boundaryPrefix        = "---------------------------"
	boundaryLength        = 15
)

// FormFile represents an uploadable part of a multipart request: a
// filename, a content type and the raw payload. It is read-only to the
// encoder.
type FormFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EncodeForm serializes a map of key/value pairs into
// application/x-www-form-urlencoded text. Keys are emitted in sorted order
// so the encoding is deterministic. Space encodes as %20. An empty map
// yields an empty string.
func EncodeForm(form map[string]string) string {
	if len(form) == 0 {
		return ""
	}

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(k))
		sb.WriteByte('=')
		sb.WriteString(escape(form[k]))
	}
	return sb.String()
}

// escape percent-encodes s for a form body, using %20 for space rather
// than the historical + form.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// EncodeMultipart serializes parts into a multipart/form-data body and
// returns the body together with the boundary token for the Content-Type
// header. Part values may be strings or FormFile (value or pointer); nil
// values are skipped and any other value is rendered with fmt. Keys are
// emitted in sorted order.
func EncodeMultipart(parts map[string]interface{}) ([]byte, string) {
	boundary := multipartBoundary()

	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for _, key := range keys {
		value := parts[key]
		if value == nil {
			continue
		}

		var file *FormFile
		switch v := value.(type) {
		case FormFile:
			file = &v
		case *FormFile:
			file = v
		}

		buf.WriteString("--" + boundary + lineEnding)
		buf.WriteString(contentDispositionHdr)
		buf.WriteString("; name=\"" + key + "\"")
		if file != nil {
			buf.WriteString("; filename=\"" + file.Filename + "\"" + lineEnding)
			buf.WriteString(contentTypeHeader + ": " + file.ContentType + ";")
			buf.WriteString(lineEnding)
			buf.WriteString(lineEnding)
			buf.Write(file.Data)
		} else {
			buf.WriteString(lineEnding)
			buf.WriteString(lineEnding)
			buf.WriteString(fmt.Sprint(value))
		}
		buf.WriteString(lineEnding)
	}
	buf.WriteString("--" + boundary + "--" + lineEnding)

	return []byte(buf.String()), boundary
}

// MultipartContentType renders the Content-Type header value for a body
// produced by EncodeMultipart.
func MultipartContentType(boundary string) string {
	return contentTypeMultipart + "; boundary=" + boundary
}

// multipartBoundary generates a boundary token: a fixed dash prefix
// followed by 15 characters drawn from digits and lowercase letters.
func multipartBoundary() string {
	var sb strings.Builder
	sb.WriteString(boundaryPrefix)

	for i := 0; i < boundaryLength; i++ {
		draw := rand.Intn(35)
		if draw < 10 {
			sb.WriteByte(byte('0' + draw))
		} else {
			sb.WriteByte(byte(87 + draw))
		}
	}
	return sb.String()
}
