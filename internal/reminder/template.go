package reminder

import (
	"regexp"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

const (
	defaultBarber  = "nosso profissional"
	defaultService = "seu serviço"

	DefaultTemplate = "Olá {{nome}}! Lembrete do seu horário hoje às {{horario}} " +
		"com {{profissional}} ({{servico}}). Até já!"
)

type placeholder struct {
	re  *regexp.Regexp
	val func(v values) string
}

type values struct {
	name, clock, date, barber, service string
}

func tag(names ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\{\{(?:` + strings.Join(names, "|") + `)\}\}`)
}

var placeholders = []placeholder{
	{tag("nome", "name"), func(v values) string { return v.name }},
	{tag("horario", "hora"), func(v values) string { return v.clock }},
	{tag("data", "date"), func(v values) string { return v.date }},
	{tag("profissional", "barber"), func(v values) string { return v.barber }},
	{tag("servico", "service"), func(v values) string { return v.service }},
}

// Render fills template for ap. Time and date are shown in the unit's local
// time as HH:MM and DD/MM.
func Render(template string, ap *models.Appointment, tz string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}

	local := timezone.LocalClock(ap.StartTime, tz)
	v := values{
		name:    ap.ClientName,
		clock:   local.Format("15:04"),
		date:    local.Format("02/01"),
		barber:  ap.BarberName(defaultBarber),
		service: ap.ServiceName(defaultService),
	}

	out := template
	for _, p := range placeholders {
		out = p.re.ReplaceAllLiteralString(out, p.val(v))
	}
	return out
}

// Window is the [from, to] range of start times due for a reminder sent at
// now, with a tolerance on both sides for cron jitter.
func Window(now time.Time, minutes int) (time.Time, time.Time) {
	if minutes <= 0 {
		minutes = defaultLeadMinutes
	}
	target := now.Add(time.Duration(minutes) * time.Minute)
	return target.Add(-windowTolerance), target.Add(windowTolerance)
}
