package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/yoockh/yoojob/internal/storage"
	"github.com/yoockh/yoojob/internal/utils"
)

const (
	MsgResumeNotPDF   = "Resume must be a PDF file."
	pdfContentType    = "application/pdf"
	DefaultResumeSize = 5 << 20
)

// Resume is an uploaded file as received from the client.
type Resume struct {
	FileName string
	Size     int64
	Content  io.Reader
}

type ResumeGateway interface {
	// Validate checks the file name, size and (optionally) content. It may
	// consume the head of r.Content and replaces it with an equivalent reader.
	Validate(r *Resume) error
	Store(ctx context.Context, applicantID string, r *Resume) (objectName, link string, err error)
	Remove(ctx context.Context, objectName string) error
}

type resumeGateway struct {
	uploader storage.Uploader
	maxBytes int64
	sniff    bool
}

func NewResumeGateway(uploader storage.Uploader, maxBytes int64, sniff bool) ResumeGateway {
	if maxBytes <= 0 {
		maxBytes = DefaultResumeSize
	}
	return &resumeGateway{uploader: uploader, maxBytes: maxBytes, sniff: sniff}
}

// notPDF uses the rejection itself as the message.
func notPDF(op string) error {
	return utils.EWith(utils.CodeInvalidArgument, op, MsgResumeNotPDF, []string{MsgResumeNotPDF}, nil)
}

func (g *resumeGateway) Validate(r *Resume) error {
	const op = "ResumeGateway.Validate"

	if !strings.EqualFold(path.Ext(r.FileName), ".pdf") {
		return notPDF(op)
	}
	if r.Size > g.maxBytes {
		return utils.Invalid(op, fmt.Sprintf("Resume must not exceed %d MB.", g.maxBytes>>20))
	}
	if !g.sniff {
		return nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return utils.E(utils.CodeInternal, op, "failed to read resume", err)
	}
	head = head[:n]
	r.Content = io.MultiReader(bytes.NewReader(head), r.Content)
	if http.DetectContentType(head) != pdfContentType {
		return notPDF(op)
	}
	return nil
}

func (g *resumeGateway) Store(ctx context.Context, applicantID string, r *Resume) (string, string, error) {
	const op = "ResumeGateway.Store"

	objectName := fmt.Sprintf("resumes/%s/%s.pdf", applicantID, uuid.NewString())
	link, err := g.uploader.Upload(ctx, objectName, pdfContentType, r.Content)
	if err != nil {
		return "", "", utils.E(utils.CodeUnavailable, op, "Resume upload failed", err)
	}
	return objectName, link, nil
}

func (g *resumeGateway) Remove(ctx context.Context, objectName string) error {
	return g.uploader.Delete(ctx, objectName)
}
