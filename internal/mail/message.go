// Package mail builds the MIME multipart messages transmitted by the
// gateway: a single text body part, plus an optional base64-encoded
// binary attachment.
package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BodyType selects the content type of the message body part.
type BodyType string

const (
	BodyPlain BodyType = "plain"
	BodyHTML  BodyType = "html"
)

// ParseBodyType maps a caller-supplied body type string to a BodyType.
// Anything other than "html" is treated as plain text.
func ParseBodyType(s string) BodyType {
	if strings.EqualFold(strings.TrimSpace(s), "html") {
		return BodyHTML
	}
	return BodyPlain
}

// Attachment is a single file attached to a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message describes one outgoing email. It is constructed fresh per send
// and discarded after the transmission attempt.
type Message struct {
	From       string
	To         string
	Subject    string
	Body       string
	BodyType   BodyType
	Attachment *Attachment
}

const crlf = "\r\n"

// base64LineLength is the RFC 2045 maximum encoded line length.
const base64LineLength = 76

// Bytes renders the message as a MIME multipart/mixed document ready for
// SMTP DATA. The body part is quoted-printable encoded; the attachment,
// when present, is a base64 application/octet-stream part with a
// Content-Disposition header carrying the filename.
func (m *Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := map[string]string{
		"From":         m.From,
		"To":           m.To,
		"Subject":      m.Subject,
		"Date":         time.Now().Format(time.RFC1123Z),
		"Message-ID":   newMessageID(m.From),
		"MIME-Version": "1.0",
		"Content-Type": fmt.Sprintf("multipart/mixed;%s boundary=%q", crlf, mw.Boundary()),
	}
	// Sorted header order keeps output deterministic.
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteString(k + ": " + headers[k] + crlf)
	}
	buf.WriteString(crlf)

	if err := m.writeBodyPart(mw); err != nil {
		return nil, err
	}
	if m.Attachment != nil {
		if err := writeAttachmentPart(mw, m.Attachment); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (m *Message) writeBodyPart(mw *multipart.Writer) error {
	contentType := "text/plain"
	if m.BodyType == BodyHTML {
		contentType = "text/html"
	}

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType + `; charset="utf-8"`},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(m.Body)); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachmentPart(mw *multipart.Writer, a *Attachment) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/octet-stream"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
	})
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(a.Content)
	for len(encoded) > 0 {
		n := base64LineLength
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := part.Write([]byte(encoded[:n] + crlf)); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

// newMessageID builds a unique Message-ID using the sender's domain when
// one can be derived from the from address.
func newMessageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = strings.Trim(from[i+1:], "<> ")
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}
