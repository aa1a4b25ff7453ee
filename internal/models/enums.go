package models

import "sort"

// EducationLevel is the candidate's current level of education
type EducationLevel string

const (
	EducationPrimario      EducationLevel = "primario"
	EducationSecundario    EducationLevel = "secundario"
	EducationTecnico       EducationLevel = "tecnico"
	EducationUniversitario EducationLevel = "universitario"
	EducationPosGraduacao  EducationLevel = "pos_graduacao"
)

// AllEducationLevels returns every education level
func AllEducationLevels() []EducationLevel {
	return []EducationLevel{EducationPrimario, EducationSecundario, EducationTecnico, EducationUniversitario, EducationPosGraduacao}
}

// Valid reports whether e is a known education level
func (e EducationLevel) Valid() bool {
	return e.Label() != ""
}

// Label returns the Portuguese display label
func (e EducationLevel) Label() string {
	switch e {
	case EducationPrimario:
		return "Primário"
	case EducationSecundario:
		return "Secundário"
	case EducationTecnico:
		return "Técnico"
	case EducationUniversitario:
		return "Universitário"
	case EducationPosGraduacao:
		return "Pós-Graduação"
	}
	return ""
}

// ScholarshipType is the programme the candidate applies to
type ScholarshipType string

const (
	ScholarshipEnsinoFundamental           ScholarshipType = "ensino_fundamental"
	ScholarshipFormacaoProfissional        ScholarshipType = "formacao_profissional"
	ScholarshipUniversitariaComparticipada ScholarshipType = "universitaria_comparticipada"
	ScholarshipOutras                      ScholarshipType = "outras"
)

// AllScholarshipTypes returns every scholarship type
func AllScholarshipTypes() []ScholarshipType {
	return []ScholarshipType{
		ScholarshipEnsinoFundamental,
		ScholarshipFormacaoProfissional,
		ScholarshipUniversitariaComparticipada,
		ScholarshipOutras,
	}
}

// Valid reports whether t is a known scholarship type
func (t ScholarshipType) Valid() bool {
	return t.Label() != ""
}

// Label returns the Portuguese display label
func (t ScholarshipType) Label() string {
	switch t {
	case ScholarshipEnsinoFundamental:
		return "Ensino Fundamental"
	case ScholarshipFormacaoProfissional:
		return "Formação Profissional"
	case ScholarshipUniversitariaComparticipada:
		return "Bolsa Universitária Comparticipada"
	case ScholarshipOutras:
		return "Outras Bolsas"
	}
	return ""
}

// IncomeBracket is the monthly household income band, in kwanzas
type IncomeBracket string

const (
	IncomeMenos50000     IncomeBracket = "menos_50000"
	Income50000To150000  IncomeBracket = "50000_150000"
	Income150000To300000 IncomeBracket = "150000_300000"
	IncomeMais300000     IncomeBracket = "mais_300000"
)

// AllIncomeBrackets returns every income band from lowest to highest
func AllIncomeBrackets() []IncomeBracket {
	return []IncomeBracket{IncomeMenos50000, Income50000To150000, Income150000To300000, IncomeMais300000}
}

// Valid reports whether b is a known income band
func (b IncomeBracket) Valid() bool {
	return b.Label() != ""
}

// Label returns the Portuguese display label
func (b IncomeBracket) Label() string {
	switch b {
	case IncomeMenos50000:
		return "Menos de 50.000 Kz"
	case Income50000To150000:
		return "50.000 - 150.000 Kz"
	case Income150000To300000:
		return "150.000 - 300.000 Kz"
	case IncomeMais300000:
		return "Mais de 300.000 Kz"
	}
	return ""
}

// Known employment statuses. The field is stored as free text; these are
// the values offered by the form.
const (
	EmploymentEmpregado    = "empregado"
	EmploymentDesempregado = "desempregado"
	EmploymentAutonomo     = "autonomo"
	EmploymentReformado    = "reformado"
)

// EmploymentLabel returns the display label for a known employment status,
// or the raw value for anything else
func EmploymentLabel(status string) string {
	switch status {
	case EmploymentEmpregado:
		return "Empregado"
	case EmploymentDesempregado:
		return "Desempregado"
	case EmploymentAutonomo:
		return "Trabalhador Autónomo"
	case EmploymentReformado:
		return "Reformado"
	}
	return status
}

var provinces = []string{
	"Bengo", "Benguela", "Bié", "Cabinda", "Cuando Cubango", "Cuanza Norte",
	"Cuanza Sul", "Cunene", "Huambo", "Huíla", "Luanda", "Lunda Norte",
	"Lunda Sul", "Malanje", "Moxico", "Namibe", "Uíge", "Zaire",
}

// Provinces returns the Angolan provinces offered by the application form
func Provinces() []string {
	out := make([]string, len(provinces))
	copy(out, provinces)
	return out
}

// IsProvince reports whether name is one of the Angolan provinces
func IsProvince(name string) bool {
	i := sort.SearchStrings(provinces, name)
	return i < len(provinces) && provinces[i] == name
}
