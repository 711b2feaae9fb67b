package render

import (
	"errors"
	"strings"
)

// ErrCSPFrozen is returned when a directive mutation is attempted after
// the policy has been serialized.
var ErrCSPFrozen = errors.New("render: content security policy is frozen")

// Directives is the directive set of a Content-Security-Policy. List
// values are joined with single spaces at serialization; ReportTo is a
// single-valued directive.
type Directives struct {
	DefaultSrc     []string
	ScriptSrc      []string
	StyleSrc       []string
	ImgSrc         []string
	FontSrc        []string
	ConnectSrc     []string
	MediaSrc       []string
	ObjectSrc      []string
	FrameSrc       []string
	WorkerSrc      []string
	BaseURI        []string
	FormAction     []string
	FrameAncestors []string
	ReportTo       string
}

// defaultDirectives is the directive set a page starts from when it
// opts into CSP: deny everything, allow inline styles.
func defaultDirectives() Directives {
	return Directives{
		DefaultSrc: []string{"'none'"},
		StyleSrc:   []string{"'unsafe-inline'"},
	}
}

// ContentSecurityPolicy is built per render pass for pages that declare
// csp: true. It is mutable while the render runs (nonce sources are
// appended per injected script) and frozen before serialization.
type ContentSecurityPolicy struct {
	Directives Directives
	ReportOnly bool

	frozen bool
}

// NewContentSecurityPolicy creates a policy with the default directive
// set.
func NewContentSecurityPolicy(reportOnly bool) *ContentSecurityPolicy {
	return &ContentSecurityPolicy{
		Directives: defaultDirectives(),
		ReportOnly: reportOnly,
	}
}

// reset re-initializes the directive set to the defaults. The pipeline
// calls this immediately before invoking the render hook, guarding
// against a hook that touched the policy beforehand.
func (p *ContentSecurityPolicy) reset() {
	if p.frozen {
		return
	}
	p.Directives = defaultDirectives()
}

// AddScriptNonce appends a nonce source to script-src.
func (p *ContentSecurityPolicy) AddScriptNonce(nonce string) error {
	if p.frozen {
		return ErrCSPFrozen
	}
	p.Directives.ScriptSrc = append(p.Directives.ScriptSrc, "'nonce-"+nonce+"'")
	return nil
}

// Freeze marks the policy read-only. Serialization freezes implicitly.
func (p *ContentSecurityPolicy) Freeze() { p.frozen = true }

// HeaderName returns the response header the policy serializes under.
func (p *ContentSecurityPolicy) HeaderName() string {
	if p.ReportOnly {
		return "content-security-policy-report-only"
	}
	return "content-security-policy"
}

// HeaderValue serializes the directive set: each defined directive as
// "name value" with list values joined by single spaces, directives
// joined by "; ". Serializing freezes the policy.
func (p *ContentSecurityPolicy) HeaderValue() string {
	p.frozen = true

	d := p.Directives
	pairs := []struct {
		name   string
		values []string
	}{
		{"default-src", d.DefaultSrc},
		{"script-src", d.ScriptSrc},
		{"style-src", d.StyleSrc},
		{"img-src", d.ImgSrc},
		{"font-src", d.FontSrc},
		{"connect-src", d.ConnectSrc},
		{"media-src", d.MediaSrc},
		{"object-src", d.ObjectSrc},
		{"frame-src", d.FrameSrc},
		{"worker-src", d.WorkerSrc},
		{"base-uri", d.BaseURI},
		{"form-action", d.FormAction},
		{"frame-ancestors", d.FrameAncestors},
	}

	var sb strings.Builder
	for _, pair := range pairs {
		if len(pair.values) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(pair.name)
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(pair.values, " "))
	}
	if d.ReportTo != "" {
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString("report-to ")
		sb.WriteString(d.ReportTo)
	}

	return sb.String()
}
