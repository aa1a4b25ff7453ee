package models

// ApplicationStatus is the administrative lifecycle field of an application
type ApplicationStatus string

const (
	StatusNova      ApplicationStatus = "nova"
	StatusEmAnalise ApplicationStatus = "em_analise"
	StatusAprovada  ApplicationStatus = "aprovada"
	StatusRejeitada ApplicationStatus = "rejeitada"
)

// Badge colours used by the dashboard and the candidate profile
const (
	ColorBlue   = "blue"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorRed    = "red"
)

// AllStatuses returns every status in workflow order
func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{StatusNova, StatusEmAnalise, StatusAprovada, StatusRejeitada}
}

// ParseStatus converts a raw value into a status
func ParseStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Valid reports whether s is one of the four known statuses
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusNova, StatusEmAnalise, StatusAprovada, StatusRejeitada:
		return true
	}
	return false
}

// IsTerminal reports whether the status is a decision. Terminality is a
// convention only: transitions out of a decision are still allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusAprovada || s == StatusRejeitada
}

// Label returns the Portuguese display label
func (s ApplicationStatus) Label() string {
	switch s {
	case StatusNova:
		return "Nova"
	case StatusEmAnalise:
		return "Em Análise"
	case StatusAprovada:
		return "Aprovada"
	case StatusRejeitada:
		return "Rejeitada"
	}
	return string(s)
}

// Color returns the badge colour for the status
func (s ApplicationStatus) Color() string {
	switch s {
	case StatusNova:
		return ColorBlue
	case StatusEmAnalise:
		return ColorYellow
	case StatusAprovada:
		return ColorGreen
	case StatusRejeitada:
		return ColorRed
	}
	return ""
}

// StatusPresentation is what a candidate sees for an application status
type StatusPresentation struct {
	Status  ApplicationStatus `json:"status"`
	Label   string            `json:"label"`
	Color   string            `json:"color"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
}

// Presentation maps the status to its badge and explanatory message
func (s ApplicationStatus) Presentation() StatusPresentation {
	p := StatusPresentation{Status: s, Label: s.Label(), Color: s.Color()}
	switch s {
	case StatusNova:
		p.Title = "Candidatura Registada"
		p.Message = "A sua candidatura foi recebida com sucesso. Aguarde o início da análise."
	case StatusEmAnalise:
		p.Title = "Em Análise"
		p.Message = "A sua candidatura está sendo analisada. Notificá-lo-emos assim que houver uma decisão."
	case StatusAprovada:
		p.Title = "Candidatura Aprovada!"
		p.Message = "Parabéns! A sua candidatura foi aprovada. Aguarde contacto por e-mail ou telefone para próximos passos."
	case StatusRejeitada:
		p.Title = "Candidatura Rejeitada"
		p.Message = "Infelizmente a sua candidatura não foi aprovada desta vez. Pode submeter uma nova candidatura no próximo ciclo."
	}
	return p
}

// statusTransitions lists, for each status, the statuses an administrator
// may move an application to. Every status may follow every other.
var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusNova:      AllStatuses(),
	StatusEmAnalise: AllStatuses(),
	StatusAprovada:  AllStatuses(),
	StatusRejeitada: AllStatuses(),
}

// CanTransition reports whether an application in status from may be moved to status to
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
