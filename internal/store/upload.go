package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ProgressFunc receives upload progress as a percentage. Reported values are
// monotonically non-decreasing and end at 100 once the server has answered.
type ProgressFunc func(percent int)

// Upload submits one or more local files in a single multipart request.
//
// A transport failure is returned as an error. A completed request is returned
// as an OpResult regardless of the success flag, with the server's message
// carried verbatim when present.
func (c *Client) Upload(ctx context.Context, paths []string, progress ProgressFunc) (OpResult, error) {
	if len(paths) == 0 {
		return OpResult{}, fmt.Errorf("upload: no files given")
	}
	if progress == nil {
		progress = func(int) {}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, path := range paths {
		if err := appendFilePart(writer, path); err != nil {
			return OpResult{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return OpResult{}, err
	}

	total := int64(body.Len())
	reader := &progressReader{r: &body, total: total, report: progress}
	progress(0)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", reader)
	if err != nil {
		return OpResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OpResult{}, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	// The round trip is over either way; the indicator must not stick short
	// of completion.
	progress(100)

	var result OpResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return OpResult{}, &ServerError{StatusCode: resp.StatusCode}
		}
		return OpResult{}, fmt.Errorf("decode upload response: %w", err)
	}

	c.log.Info("upload finished",
		zap.Int("files", len(paths)),
		zap.Int64("bytes", total),
		zap.Bool("success", result.Success))
	return result, nil
}

func appendFilePart(writer *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// progressReader reports percentage as the request body drains. Percentages
// never go backwards even if the transport re-reads.
type progressReader struct {
	r       io.Reader
	total   int64
	sent    int64
	lastPct int
	report  ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.sent += int64(n)
	if p.total > 0 {
		pct := int(p.sent * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.lastPct {
			p.lastPct = pct
			p.report(pct)
		}
	}
	return n, err
}
