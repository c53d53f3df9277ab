package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RawID is the raw JSON bytes of a request id (number, string, or null).
// It is captured verbatim from the request and echoed back unchanged.
// A nil/empty RawID means the request carried no id.
type RawID []byte

// orNull returns the id bytes, substituting an explicit JSON null when the
// request carried no id (parse errors, unattributable failures).
func (id RawID) orNull() []byte {
	if len(id) == 0 {
		return []byte("null")
	}
	return id
}

// Transport frames JSON-RPC messages over a byte stream using the LSP base
// protocol: a header block with a Content-Length, a blank line, then the
// JSON body. It is used from a single dispatch loop and does no locking.
type Transport struct {
	reader *bufio.Reader
	writer *bufio.Writer
	closed bool
}

// NewTransport creates a transport over the given stream pair
// (typically stdin/stdout).
func NewTransport(r io.Reader, w io.Writer) *Transport {
	return &Transport{
		reader: bufio.NewReaderSize(r, 64*1024),
		writer: bufio.NewWriter(w),
	}
}

// Closed reports whether the input stream has been exhausted. The run loop
// uses this to terminate.
func (t *Transport) Closed() bool { return t.closed }

// Receive reads one framed message and returns its parsed JSON body.
// It returns io.EOF only on clean stream closure (no bytes of a message
// read); a stream truncated mid-message yields an io.ErrUnexpectedEOF-based
// error, and malformed input yields ErrMalformedHeader, ErrMissingLength or
// ErrBadJSON. After a header failure no bytes beyond the offending line
// have been consumed.
func (t *Transport) Receive() (gjson.Result, error) {
	headers, err := t.readHeaders()
	if err != nil {
		return gjson.Result{}, err
	}

	lengthValue, ok := headers["content-length"]
	if !ok {
		return gjson.Result{}, ErrMissingLength
	}
	length, err := strconv.Atoi(lengthValue)
	if err != nil || length < 0 {
		return gjson.Result{}, fmt.Errorf("%w: bad content-length %q", ErrMalformedHeader, lengthValue)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(t.reader, body); err != nil {
		t.closed = true
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return gjson.Result{}, fmt.Errorf("read body: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrBadJSON
	}
	return gjson.ParseBytes(body), nil
}

// readHeaders reads header lines up to the terminating blank line.
// Names are case-folded to lowercase, values trimmed, duplicates overwrite.
func (t *Transport) readHeaders() (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			t.closed = true
			// Bare io.EOF is reserved for clean closure: no headers read
			// and no partial line pending. A stream that ends mid-message
			// is a parse failure, not a clean close.
			if err == io.EOF {
				if len(headers) == 0 && line == "" {
					return nil, io.EOF
				}
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return headers, nil
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, ErrMalformedHeader
		}
		headers[strings.ToLower(name)] = strings.TrimSpace(value)
	}
}

// Notify sends a notification: {method, params}, no id.
func (t *Transport) Notify(method string, params any) error {
	body, err := sjson.SetBytes([]byte(`{}`), "method", method)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if body, err = sjson.SetRawBytes(body, "params", raw); err != nil {
		return err
	}
	return t.send(body, nil, false)
}

// Reply sends a successful response: {result} with the request's id.
func (t *Transport) Reply(id RawID, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	body, err := sjson.SetRawBytes([]byte(`{}`), "result", raw)
	if err != nil {
		return err
	}
	return t.send(body, id, true)
}

// Error sends an error response: {error:{code,message}}. The id is null
// when the triggering request could not be identified.
func (t *Transport) Error(id RawID, code ErrorCode, message string) error {
	body, err := sjson.SetBytes([]byte(`{}`), "error.code", int(code))
	if err != nil {
		return err
	}
	if body, err = sjson.SetBytes(body, "error.message", message); err != nil {
		return err
	}
	return t.send(body, id, true)
}

// send injects the protocol version tag (and the id on responses), frames
// the body with a Content-Length header and flushes. The body has no
// trailing delimiter.
func (t *Transport) send(body []byte, id RawID, includeID bool) error {
	body, err := sjson.SetBytes(body, "jsonrpc", "2.0")
	if err != nil {
		return err
	}
	if includeID {
		if body, err = sjson.SetRawBytes(body, "id", id.orNull()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(t.writer, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := t.writer.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return t.writer.Flush()
}
