// Copyright 2025 The tempdocs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package confluence

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tempdocs/tempdocs/internal/metrics"
	"github.com/tempdocs/tempdocs/pkg/errors"
	"github.com/tempdocs/tempdocs/pkg/template"
)

// OverviewTitle is the root page holding the generated documentation tree.
const OverviewTitle = "Harness Templates Documentation"

// categoryTitles maps template kinds to their category page titles. Kinds
// outside this map are skipped with a warning.
var categoryTitles = map[string]string{
	template.KindPipeline:  "Pipeline Templates",
	template.KindStage:     "Stage Templates",
	template.KindStepGroup: "Step Group Templates",
}

// Publisher maintains the page tree: one overview page, one category page
// per kind, one page per template.
type Publisher struct {
	client   *Client
	spaceKey string
	parentID string
	logger   *slog.Logger

	now func() time.Time
}

// NewPublisher creates a publisher targeting one space. parentID anchors
// the overview page; empty means the space root.
func NewPublisher(client *Client, spaceKey, parentID string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:   client,
		spaceKey: spaceKey,
		parentID: parentID,
		logger:   logger,
		now:      time.Now,
	}
}

// PublishAll pushes every template page, creating the overview and
// category pages on first run and refreshing the overview statistics at
// the end. Templates of unknown kind are skipped, not fatal.
func (p *Publisher) PublishAll(ctx context.Context, metas []*template.Metadata) error {
	overview, err := p.ensureOverview(ctx, metas)
	if err != nil {
		return err
	}

	categoryIDs, err := p.ensureCategories(ctx, overview.ID)
	if err != nil {
		return err
	}

	published := 0
	for _, meta := range metas {
		parentID, ok := categoryIDs[meta.Type]
		if !ok {
			p.logger.Warn("unknown template type, skipping publish",
				"template", meta.Name,
				"kind", meta.Type)
			continue
		}

		if err := p.publishTemplate(ctx, meta, parentID); err != nil {
			return err
		}
		published++
		metrics.PagesPublished.Inc()
	}

	// Refresh the overview so the statistics reflect this run
	if err := p.client.UpdatePage(ctx, overview, OverviewTitle, p.overviewContent(metas), p.parentID); err != nil {
		return err
	}

	p.logger.Info("published templates to confluence",
		"space", p.spaceKey,
		"published", published,
		"total", len(metas))
	return nil
}

// findExisting looks up a page and translates a not-found miss into a nil
// page so callers can branch on create-vs-update.
func (p *Publisher) findExisting(ctx context.Context, title, parentID string) (*Page, error) {
	page, err := p.client.FindPage(ctx, p.spaceKey, title, parentID)
	if err != nil {
		var notFound *errors.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return page, nil
}

func (p *Publisher) ensureOverview(ctx context.Context, metas []*template.Metadata) (*Page, error) {
	page, err := p.findExisting(ctx, OverviewTitle, p.parentID)
	if err != nil {
		return nil, err
	}
	if page != nil {
		p.logger.Debug("found existing overview page", "id", page.ID)
		return page, nil
	}

	p.logger.Info("creating overview page", "space", p.spaceKey)
	return p.client.CreatePage(ctx, p.spaceKey, OverviewTitle, p.overviewContent(metas), p.parentID)
}

func (p *Publisher) ensureCategories(ctx context.Context, overviewID string) (map[string]string, error) {
	ids := make(map[string]string, len(categoryTitles))

	for _, kind := range sortedCategoryKinds() {
		title := categoryTitles[kind]

		page, err := p.findExisting(ctx, title, overviewID)
		if err != nil {
			return nil, err
		}
		if page == nil {
			p.logger.Info("creating category page", "kind", kind, "page", title)
			body := fmt.Sprintf("<p>Documentation for %s.</p>", title)
			page, err = p.client.CreatePage(ctx, p.spaceKey, title, body, overviewID)
			if err != nil {
				return nil, err
			}
		}

		ids[kind] = page.ID
	}

	return ids, nil
}

func (p *Publisher) publishTemplate(ctx context.Context, meta *template.Metadata, parentID string) error {
	body := p.templateContent(meta)

	page, err := p.findExisting(ctx, meta.Name, parentID)
	if err != nil {
		return err
	}

	if page != nil {
		p.logger.Info("updating template page", "template", meta.Name, "id", page.ID)
		return p.client.UpdatePage(ctx, page, meta.Name, body, parentID)
	}

	p.logger.Info("creating template page", "template", meta.Name)
	_, err = p.client.CreatePage(ctx, p.spaceKey, meta.Name, body, parentID)
	return err
}

// overviewContent renders the overview page body with per-kind counts.
func (p *Publisher) overviewContent(metas []*template.Metadata) string {
	counts := map[string]int{}
	for _, meta := range metas {
		counts[meta.Type]++
	}

	var b strings.Builder
	b.WriteString("<p>This space contains automatically generated documentation for Harness templates.</p>")
	b.WriteString("<h2>Template Statistics</h2><ul>")
	fmt.Fprintf(&b, "<li>Total Templates: %d</li>", len(metas))

	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&b, "<li>%s Templates: %d</li>", capitalize(kind), counts[kind])
	}
	b.WriteString("</ul>")

	fmt.Fprintf(&b, "<h2>Last Updated</h2><p>This documentation was last updated on %s.</p>",
		p.now().Format("2006-01-02 15:04:05"))

	b.WriteString("<h2>Template Categories</h2><ul>")
	for _, kind := range sortedCategoryKinds() {
		title := categoryTitles[kind]
		fmt.Fprintf(&b, `<li><a href=%q>%s</a></li>`, title, title)
	}
	b.WriteString("</ul>")

	return b.String()
}

// templateContent renders one template's page body in storage format.
// Collection iteration is sorted so republishing unchanged metadata
// produces identical bodies.
func (p *Publisher) templateContent(meta *template.Metadata) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(meta.Name))
	b.WriteString(`<div class="template-metadata">`)
	fmt.Fprintf(&b, "<p><strong>Type:</strong> %s</p>", html.EscapeString(meta.Type))
	fmt.Fprintf(&b, "<p><strong>Version:</strong> %s</p>", html.EscapeString(meta.Version))
	fmt.Fprintf(&b, "<p><strong>Author:</strong> %s</p>", html.EscapeString(meta.Author))
	b.WriteString("</div>")
	fmt.Fprintf(&b, "<h2>Description</h2><p>%s</p>", html.EscapeString(meta.Description))

	if len(meta.Tags) > 0 {
		b.WriteString("<h2>Tags</h2><ul>")
		for _, tag := range meta.Tags {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(tag))
		}
		b.WriteString("</ul>")
	}

	if len(meta.Parameters) > 0 {
		b.WriteString("<h2>Parameters</h2><table>")
		b.WriteString("<tr><th>Name</th><th>Description</th><th>Type</th><th>Required</th><th>Default</th><th>Scope</th></tr>")
		for _, name := range sortedParameterNames(meta.Parameters) {
			param := meta.Parameters[name]
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(name),
				html.EscapeString(param.Description),
				html.EscapeString(param.Type),
				yesNo(param.Required),
				html.EscapeString(param.Default.String()),
				html.EscapeString(param.Scope))
		}
		b.WriteString("</table>")
	}

	if len(meta.Variables) > 0 {
		b.WriteString("<h2>Variables</h2><table>")
		b.WriteString("<tr><th>Name</th><th>Description</th><th>Type</th><th>Required</th><th>Scope</th></tr>")
		for _, name := range sortedVariableNames(meta.Variables) {
			v := meta.Variables[name]
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(name),
				html.EscapeString(v.Description),
				html.EscapeString(v.Type),
				yesNo(v.Required),
				html.EscapeString(v.Scope))
		}
		b.WriteString("</table>")
	}

	if len(meta.Examples) > 0 {
		b.WriteString("<h2>Examples</h2>")
		for i, example := range meta.Examples {
			fmt.Fprintf(&b, "<h3>Example %d</h3>", i+1)
			b.WriteString(`<div class="code panel pdl"><div class="codeContent panelContent pdl">`)
			fmt.Fprintf(&b, `<pre class="brush: yaml; gutter: false; theme: Confluence">%s</pre>`,
				html.EscapeString(example))
			b.WriteString("</div></div>")
		}
	}

	fmt.Fprintf(&b, "<hr /><p><em>This documentation was automatically generated on %s.</em></p>",
		p.now().Format("2006-01-02 15:04:05"))

	return b.String()
}

func sortedCategoryKinds() []string {
	kinds := make([]string, 0, len(categoryTitles))
	for kind := range categoryTitles {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func sortedParameterNames(m map[string]template.Parameter) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedVariableNames(m map[string]template.Variable) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
