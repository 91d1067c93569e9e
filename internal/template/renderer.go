package template

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/outreach/internal/domain"
)

// Renderer renders templates with Liquid, caching compiled templates.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewRenderer creates a renderer with the outreach filter set registered.
func NewRenderer() *Renderer {
	r := &Renderer{engine: liquid.NewEngine()}
	r.registerFilters()
	return r
}

func (r *Renderer) registerFilters() {
	// Default value filter: {{ first_name | default: "there" }}
	r.engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		strVal := fmt.Sprintf("%v", value)
		if strVal == "" || strVal == "<nil>" {
			return defaultVal
		}
		return value
	})

	// Capitalize first letter: {{ name | capitalize }}
	r.engine.RegisterFilter("capitalize", func(s string) string {
		if len(s) == 0 {
			return s
		}
		return strings.ToUpper(string(s[0])) + strings.ToLower(s[1:])
	})

	// Truncate with ellipsis: {{ hook | truncate: 80 }}
	r.engine.RegisterFilter("truncate", func(s string, length int) string {
		if len(s) <= length {
			return s
		}
		if length <= 3 {
			return s[:length]
		}
		return s[:length-3] + "..."
	})
}

// Rendered is the output of rendering a template for one contact.
type Rendered struct {
	Subject string
	Body    string
}

// Render renders the template's subject and body against the context.
// Missing variables render empty.
func (r *Renderer) Render(t *Template, ctx map[string]interface{}) (*Rendered, error) {
	subject, err := r.renderString("s:"+t.Name, t.Subject, ctx)
	if err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	body, err := r.renderString("b:"+t.Name, t.Body, ctx)
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}
	return &Rendered{Subject: strings.TrimSpace(subject), Body: body}, nil
}

func (r *Renderer) renderString(cacheKey, src string, ctx map[string]interface{}) (string, error) {
	if cached, ok := r.cache.Load(cacheKey); ok {
		return cached.(*liquid.Template).RenderString(ctx)
	}
	tpl, err := r.engine.ParseString(src)
	if err != nil {
		return "", err
	}
	r.cache.Store(cacheKey, tpl)
	return tpl.RenderString(ctx)
}

// Validate parses both parts of the template and reports syntax errors.
func (r *Renderer) Validate(t *Template) error {
	if _, err := r.engine.ParseString(t.Subject); err != nil {
		return fmt.Errorf("subject: %w", err)
	}
	if _, err := r.engine.ParseString(t.Body); err != nil {
		return fmt.Errorf("body: %w", err)
	}
	return nil
}

// BodyToHTML converts a plain-text body to minimal HTML: paragraphs on
// blank lines, <br> inside them. Full markdown is out of scope.
func BodyToHTML(body string) string {
	paragraphs := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(p, "\n", "<br>"))
		b.WriteString("</p>\n")
	}
	return b.String()
}

// ContactContext builds the render context for a contact. Custom fields are
// flattened in first so the well-known keys always win.
func ContactContext(c *domain.Contact) map[string]interface{} {
	ctx := make(map[string]interface{}, len(c.CustomFields)+16)
	for k, v := range c.CustomFields {
		ctx[k] = v
	}
	ctx["first_name"] = c.FirstName
	ctx["last_name"] = c.LastName
	ctx["full_name"] = c.FullName()
	ctx["email"] = c.Email
	ctx["company"] = c.Company
	ctx["title"] = c.Title
	ctx["industry"] = c.Industry
	ctx["company_size"] = c.CompanySize
	ctx["location"] = c.Location
	ctx["segment"] = c.Segment
	ctx["website"] = c.Website
	ctx["personalization_hook"] = c.PersonalizationHook
	return ctx
}
