package narrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/teampulse/teampulse/pkg/analytics"
	"github.com/teampulse/teampulse/pkg/errors"
	"github.com/teampulse/teampulse/pkg/logging"
	"github.com/teampulse/teampulse/pkg/telemetry"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxTokens  = 300
	narrationSystem   = "You are a concise analytics assistant for an engineering manager. Summarize the figures you are given in two or three plain sentences. Never invent numbers."
	requestsPerMinute = 20
)

// Options configures the narrator.
type Options struct {
	Enabled  bool
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Narrator produces prose summaries of computed figures. All methods return
// the empty string on any failure; callers never branch on narration errors.
type Narrator struct {
	provider Provider
	log      *logging.Logger
	timeout  time.Duration
	limiter  *rate.Limiter
}

// New builds a narrator from options. A disabled configuration yields a
// narrator whose methods always return the empty string.
func New(opts Options, log *logging.Logger) (*Narrator, error) {
	if log == nil {
		log = logging.Discard()
	}
	if !opts.Enabled {
		return &Narrator{log: log}, nil
	}

	provider, err := newProvider(opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "narration provider setup failed")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Narrator{
		provider: provider,
		log:      log,
		timeout:  timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), requestsPerMinute),
	}, nil
}

// Disabled returns a narrator that never narrates.
func Disabled() *Narrator {
	n, _ := New(Options{}, nil)
	return n
}

// Enabled reports whether a provider is configured.
func (n *Narrator) Enabled() bool {
	return n.provider != nil
}

// TeamMetrics narrates a scored team snapshot.
func (n *Narrator) TeamMetrics(ctx context.Context, teamName string, result *analytics.TeamMetricsResult) string {
	if result == nil || result.Snapshot == nil {
		return ""
	}
	return n.narrate(ctx, "team_metrics", teamMetricsDigest(teamName, result))
}

// Dashboard narrates the owner-level aggregate.
func (n *Narrator) Dashboard(ctx context.Context, dash *analytics.Dashboard) string {
	if dash == nil {
		return ""
	}
	return n.narrate(ctx, "dashboard", dashboardDigest(dash))
}

// Insights narrates a categorization run.
func (n *Narrator) Insights(ctx context.Context, report *analytics.InsightReport) string {
	if report == nil {
		return ""
	}
	return n.narrate(ctx, "insights", insightsDigest(report))
}

// narrate runs one completion under the configured timeout. Every failure
// path logs, counts, and degrades to the empty string.
func (n *Narrator) narrate(ctx context.Context, kind, digest string) string {
	if n.provider == nil {
		return ""
	}

	if !n.limiter.Allow() {
		n.log.Warn(logging.CategoryNarration, "narration_throttled",
			"narration request dropped by rate limiter", map[string]any{"kind": kind})
		telemetry.NarrationFailures.WithLabelValues(string(errors.ErrCodeNarrationAPI)).Inc()
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	text, err := n.provider.Complete(ctx, CompletionRequest{
		System:    narrationSystem,
		Prompt:    digest,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		code := errors.ErrCodeNarrationAPI
		if stderrors.Is(err, context.DeadlineExceeded) {
			code = errors.ErrCodeNarrationTimeout
		}
		n.log.Warn(logging.CategoryNarration, "narration_failed",
			"narration degraded to empty", map[string]any{
				"kind":     kind,
				"provider": n.provider.ID(),
				"code":     string(code),
				"error":    err.Error(),
			})
		telemetry.NarrationFailures.WithLabelValues(string(code)).Inc()
		return ""
	}

	return strings.TrimSpace(text)
}

func teamMetricsDigest(teamName string, result *analytics.TeamMetricsResult) string {
	snap := result.Snapshot
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly figures for team %s (%s to %s):\n",
		teamName,
		snap.PeriodStart.Format("2006-01-02"),
		snap.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(&b, "- open actions: %d (%d blockers, %d overdue)\n",
		snap.OpenActions, snap.BlockerCount, snap.OverdueActions)
	fmt.Fprintf(&b, "- created %d, completed %d this period\n",
		snap.CreatedThisPeriod, snap.CompletedThisPeriod)
	if snap.AvgCompletionDays != nil {
		fmt.Fprintf(&b, "- average completion time: %.1f days\n", *snap.AvgCompletionDays)
	}
	if snap.AvgMood != nil {
		fmt.Fprintf(&b, "- average one-on-one mood: %.1f of 5\n", *snap.AvgMood)
	}
	fmt.Fprintf(&b, "- meetings held: %d, one-on-ones: %d\n",
		snap.MeetingsHeld, snap.OneOnOnesConducted)
	fmt.Fprintf(&b, "- scores: velocity %.2f, health %.0f, engagement %.0f\n",
		snap.VelocityScore, snap.HealthScore, snap.EngagementScore)
	fmt.Fprintf(&b, "- health trend versus previous snapshot: %s\n", result.Trend)
	return b.String()
}

func dashboardDigest(dash *analytics.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio figures (%s to %s):\n",
		dash.PeriodStart.Format("2006-01-02"),
		dash.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(&b, "- open actions: %d (%d blockers, %d overdue)\n",
		dash.Totals.OpenActions, dash.Totals.BlockerCount, dash.Totals.OverdueActions)
	fmt.Fprintf(&b, "- created %d, completed %d this period (trend: %s)\n",
		dash.Totals.CreatedThisPeriod, dash.Totals.CompletedThisPeriod, dash.CompletionTrend)
	fmt.Fprintf(&b, "- meetings: %d, one-on-ones: %d\n",
		dash.Totals.MeetingsHeld, dash.Totals.OneOnOnesConducted)
	for i, team := range dash.TeamBreakdown {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "- team %s: %d actions (%d completed)\n",
			team.Name, team.Total, team.Completed)
	}
	for i, bucket := range dash.TimeAllocation {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "- %.1f%% of meeting time on %s\n", bucket.Percent, bucket.Name)
	}
	return b.String()
}

func insightsDigest(report *analytics.InsightReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Activity over the analyzed window: %d actions, %d events, %d one-on-ones across %d teams.\n",
		report.Summary.ActionCount, report.Summary.EventCount,
		report.Summary.OneOnOneCount, report.Summary.TeamsTouched)

	categories := make([]string, 0, len(report.Insights))
	for category := range report.Insights {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, item := range report.Insights[analytics.InsightCategory(category)] {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", category, item.Title, item.Description)
		}
	}
	return b.String()
}
