package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/account-ranking/pkg/models/domain"
)

const ReportTitle = "Customer Ranking - 3 Year Report"

var ErrUnknownFormat = errors.New("unknown export format")

// View is the read-only input of an exporter.
type View struct {
	Report      domain.Report
	Sort        domain.SortState
	FilterUser  string
	GeneratedAt time.Time
	Labels      Labels
}

// Exporter encodes a report view into one file format
type Exporter interface {
	Format() string
	ContentType() string
	Extension() string
	Encode(w io.Writer, view View) error
}

// Registry manages exporters by format name
type Registry interface {
	Register(exporter Exporter) error
	Get(format string) (Exporter, error)
	Formats() []string
}

type registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

func NewRegistry(exporters ...Exporter) (Registry, error) {
	r := &registry{exporters: make(map[string]Exporter)}
	for _, e := range exporters {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with the csv, xlsx and pdf exporters.
func DefaultRegistry() Registry {
	r, _ := NewRegistry(NewCSVExporter(), NewXLSXExporter(), NewPDFExporter())
	return r
}

func (r *registry) Register(exporter Exporter) error {
	if exporter == nil {
		return fmt.Errorf("exporter cannot be nil")
	}
	format := strings.ToLower(exporter.Format())
	if format == "" {
		return fmt.Errorf("format name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.exporters[format]; exists {
		return fmt.Errorf("format %q is already registered", format)
	}
	r.exporters[format] = exporter
	return nil
}

func (r *registry) Get(format string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exporters[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return e, nil
}

func (r *registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Artifact is an encoded export ready to hand to the host application.
type Artifact struct {
	Filename    string
	Format      string
	ContentType string
	Data        []byte
	UserFilter  string
	GeneratedAt time.Time
}

// Mode is the host-side action name, e.g. "exportCSV".
func (a Artifact) Mode() string {
	return "export" + strings.ToUpper(a.Format)
}

// HostPayload is the envelope the embedding application receives.
type HostPayload struct {
	CSVData       string `json:"csvData,omitempty"`
	XLSXData      string `json:"xlsxData,omitempty"`
	PDFData       string `json:"pdfData,omitempty"`
	Filename      string `json:"filename"`
	Mode          string `json:"mode"`
	UserFilter    string `json:"userFilter"`
	GeneratedDate string `json:"generatedDate"`
	Location      string `json:"location,omitempty"`
}

// HostPayload builds the envelope. Binary formats are base64 encoded; the
// data is left out when withData is false.
func (a Artifact) HostPayload(withData bool) HostPayload {
	p := HostPayload{
		Filename:      a.Filename,
		Mode:          a.Mode(),
		UserFilter:    a.UserFilter,
		GeneratedDate: a.GeneratedAt.UTC().Format(time.RFC3339Nano),
	}
	if !withData {
		return p
	}
	switch a.Format {
	case "csv":
		p.CSVData = string(a.Data)
	case "xlsx":
		p.XLSXData = base64.StdEncoding.EncodeToString(a.Data)
	case "pdf":
		p.PDFData = base64.StdEncoding.EncodeToString(a.Data)
	}
	return p
}

// Render encodes view with exporter into an Artifact.
func Render(exporter Exporter, view View) (Artifact, error) {
	var buf bytes.Buffer
	if err := exporter.Encode(&buf, view); err != nil {
		return Artifact{}, fmt.Errorf("encode %s export: %w", exporter.Format(), err)
	}
	return Artifact{
		Filename:    Filename(view.FilterUser, view.GeneratedAt, exporter.Extension()),
		Format:      exporter.Format(),
		ContentType: exporter.ContentType(),
		Data:        buf.Bytes(),
		UserFilter:  view.FilterUser,
		GeneratedAt: view.GeneratedAt,
	}, nil
}

// unsafeName matches runs of whitespace and path separators in a user name.
var unsafeName = regexp.MustCompile(`[\s/\\]+`)

// Filename builds Customer_Ranking_Report[_<user>]_<YYYY-MM-DD>.<ext>.
func Filename(user string, at time.Time, ext string) string {
	var b strings.Builder
	b.WriteString("Customer_Ranking_Report")
	if user != "" {
		b.WriteString("_")
		b.WriteString(unsafeName.ReplaceAllString(user, "_"))
	}
	b.WriteString("_")
	b.WriteString(at.UTC().Format("2006-01-02"))
	b.WriteString(".")
	b.WriteString(ext)
	return b.String()
}
