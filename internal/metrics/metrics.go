package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RegistrationsCreated prometheus.Counter
	WizardSubmissions    *prometheus.CounterVec
	AdminLogins          *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dubexpo_registrations_created_total",
			Help: "Total number of registrations accepted by the store",
		}),
		WizardSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dubexpo_wizard_submissions_total",
			Help: "Total number of wizard submit attempts by result",
		}, []string{"result"}),
		AdminLogins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dubexpo_admin_logins_total",
			Help: "Total number of admin login attempts by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementRegistrations() {
	m.RegistrationsCreated.Inc()
}

func (m *Metrics) IncrementWizardSubmissions(result string) {
	m.WizardSubmissions.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementAdminLogins(result string) {
	m.AdminLogins.WithLabelValues(result).Inc()
}
