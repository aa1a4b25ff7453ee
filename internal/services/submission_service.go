package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"github.com/formar-para-liderar/app-bolsas/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission channels, used as metric labels
const (
	ChannelDirect = "direct"
	ChannelDraft  = "draft"
)

const maxMotivationLength = 5000

// SubmissionService turns submitted forms into application records
type SubmissionService struct {
	apps   repository.ApplicationRepository
	audit  *AuditWorker
	logger *logging.SafeLogger
	now    func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(apps repository.ApplicationRepository, audit *AuditWorker, logger *logging.SafeLogger) *SubmissionService {
	return &SubmissionService{
		apps:   apps,
		audit:  audit,
		logger: logger.With(zap.String("service", "submission")),
		now:    time.Now,
	}
}

// SubmitDocument validates a raw JSON form and creates the application.
// userID is nil for anonymous submissions.
func (s *SubmissionService) SubmitDocument(ctx context.Context, document []byte, userID *string, actx models.AuditContext) (*models.Application, error) {
	result, err := utils.ValidateFormDocument(document)
	if err != nil {
		s.recordOutcome(ChannelDirect, "malformed")
		return nil, errors.Join(models.ErrMalformedBody, err)
	}
	if err := result.AsError(); err != nil {
		s.recordOutcome(ChannelDirect, "invalid")
		return nil, err
	}

	var form models.ApplicationForm
	if err := json.Unmarshal(document, &form); err != nil {
		s.recordOutcome(ChannelDirect, "malformed")
		return nil, errors.Join(models.ErrMalformedBody, err)
	}
	return s.create(ctx, form, userID, ChannelDirect, actx)
}

// SubmitForm validates an already decoded form, as held by a draft, and
// creates the application
func (s *SubmissionService) SubmitForm(ctx context.Context, form models.ApplicationForm, userID *string, actx models.AuditContext) (*models.Application, error) {
	document, err := json.Marshal(form)
	if err != nil {
		return nil, err
	}
	result, err := utils.ValidateFormDocument(document)
	if err != nil {
		return nil, err
	}
	if err := result.AsError(); err != nil {
		s.recordOutcome(ChannelDraft, "invalid")
		return nil, err
	}
	return s.create(ctx, form, userID, ChannelDraft, actx)
}

func (s *SubmissionService) create(ctx context.Context, form models.ApplicationForm, userID *string, channel string, actx models.AuditContext) (*models.Application, error) {
	ctx, span, cleanup := utils.TraceOperation(ctx, "submission.create", map[string]interface{}{"channel": channel})
	defer cleanup()

	app, err := BuildApplication(form, userID, s.now())
	if err != nil {
		s.recordOutcome(channel, "invalid")
		return nil, err
	}

	if err := s.apps.Insert(ctx, app); err != nil {
		s.recordOutcome(channel, "error")
		utils.RecordErrorInSpan(span, err, nil)
		s.logger.Error("failed to insert application", zap.Error(err), zap.String("channel", channel))
		return nil, backendError("insert application", err)
	}

	s.recordOutcome(channel, "success")
	s.logger.Info("application submitted",
		zap.String("application_id", app.ID),
		zap.String("channel", channel),
		zap.Bool("anonymous", app.UserID == nil),
		zap.String("bi_number", observability.MaskBI(app.BINumber)))
	s.audit.Log(ctx, actx, models.AuditActionCreate, models.AuditResourceApplication, app.ID, nil,
		map[string]string{"status": string(app.Status), "scholarship_type": string(app.ScholarshipType)},
		map[string]string{"channel": channel})

	return app, nil
}

func (s *SubmissionService) recordOutcome(channel, result string) {
	observability.ApplicationsSubmitted.WithLabelValues(channel, result).Inc()
}

// BuildApplication converts a raw form into a new application record. It
// performs every content check; structural checks happen against the
// form schema beforehand.
func BuildApplication(form models.ApplicationForm, userID *string, now time.Time) (*models.Application, error) {
	v := utils.NewValidationResult()

	v.RequireText("full_name", form.FullName)
	v.RequireText("bi_number", form.BINumber)
	v.RequireText("municipality", form.Municipality)
	v.RequireText("address", form.Address)
	v.RequireText("institution", form.Institution)
	v.RequireText("employment_status", form.EmploymentStatus)
	if v.RequireText("motivation", form.Motivation) {
		v.MaxLength("motivation", form.Motivation, maxMotivationLength)
	}

	if v.RequireText("birth_date", form.BirthDate) {
		if _, err := utils.ParseBirthDate(form.BirthDate, now); err != nil {
			if errors.Is(err, utils.ErrFutureDate) {
				v.AddError("birth_date", "A data de nascimento não pode ser no futuro")
			} else {
				v.AddError("birth_date", "Data inválida (AAAA-MM-DD)")
			}
		}
	}

	for _, e := range utils.ValidatePhoneNumber("phone", form.Phone).Errors {
		v.AddError(e.Field, e.Message)
	}
	for _, e := range utils.ValidateEmailAddress("email", form.Email).Errors {
		if !v.HasError(e.Field) {
			v.AddError(e.Field, e.Message)
		}
	}

	if v.RequireText("province", form.Province) && !models.IsProvince(utils.SanitizeString(form.Province)) {
		v.AddError("province", "Província inválida")
	}

	education := models.EducationLevel(form.EducationLevel)
	if !education.Valid() {
		v.AddError("education_level", "Valor inválido")
	}
	scholarship := models.ScholarshipType(form.ScholarshipType)
	if !scholarship.Valid() {
		v.AddError("scholarship_type", "Valor inválido")
	}
	income := models.IncomeBracket(form.HouseholdIncome)
	if !income.Valid() {
		v.AddError("household_income", "Valor inválido")
	}

	currentYear, ok := utils.ParseOptionalPositiveInt(form.CurrentYear.String())
	if !ok {
		v.AddError("current_year", "Deve ser um número inteiro positivo")
	}

	var members int
	if v.RequireText("household_members", form.HouseholdMembers.String()) {
		if members, ok = utils.ParseMinInt(form.HouseholdMembers.String(), 1); !ok {
			v.AddError("household_members", "Deve ser um número inteiro maior ou igual a 1")
		}
	}

	if !form.DeclarationAccepted {
		v.AddError("declaration_accepted", "É necessário aceitar a declaração para submeter a candidatura")
	}

	if err := v.AsError(); err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:                  uuid.NewString(),
		UserID:              userID,
		FullName:            utils.SanitizeString(form.FullName),
		BirthDate:           utils.SanitizeString(form.BirthDate),
		BINumber:            utils.SanitizeString(form.BINumber),
		Phone:               utils.SanitizeString(form.Phone),
		Email:               utils.SanitizeString(form.Email),
		Address:             utils.SanitizeString(form.Address),
		Province:            utils.SanitizeString(form.Province),
		Municipality:        utils.SanitizeString(form.Municipality),
		EducationLevel:      education,
		Institution:         utils.SanitizeString(form.Institution),
		Course:              utils.OptionalString(form.Course),
		CurrentYear:         currentYear,
		ScholarshipType:     scholarship,
		HouseholdIncome:     income,
		HouseholdMembers:    members,
		EmploymentStatus:    utils.SanitizeString(form.EmploymentStatus),
		Motivation:          utils.SanitizeString(form.Motivation),
		DeclarationAccepted: true,
	}
	app.BeforeCreate(now)
	return app, nil
}
