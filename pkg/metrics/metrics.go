package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sophro", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sophro", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sophro", Name: "submissions_total", Help: "Public form submissions stored, by kind."},
		[]string{"kind"},
	)
	AdminLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sophro", Name: "admin_logins_total", Help: "Admin login attempts by result."},
		[]string{"result"},
	)
	MailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sophro", Name: "mails_sent_total", Help: "Notification emails by kind and result."},
		[]string{"kind", "result"},
	)
	PageVersions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sophro", Name: "page_versions_created_total", Help: "Page versions recorded, by page."},
		[]string{"page"},
	)
	MediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sophro", Name: "media_uploads_total", Help: "Admin media uploads by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Submissions)
	reg.MustRegister(AdminLogins)
	reg.MustRegister(MailsSent)
	reg.MustRegister(PageVersions)
	reg.MustRegister(MediaUploads)
}
