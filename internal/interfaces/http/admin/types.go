package admin

import (
	"time"

	adminapp "github.com/cocosurvey/cocosurvey-services/api/internal/admin/application"
	admindomain "github.com/cocosurvey/cocosurvey-services/api/internal/admin/domain"
)

type visibilityPayload struct {
	DependsOnID string `json:"dependsOnId"`
	Operator    string `json:"operator,omitempty"`
	Value       string `json:"value,omitempty"`
}

type validationPayload struct {
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	MinDate   string `json:"minDate,omitempty"`
	MaxDate   string `json:"maxDate,omitempty"`
}

type fieldPayload struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Type       string             `json:"type"`
	Required   bool               `json:"required"`
	Options    []string           `json:"options,omitempty"`
	AIEnabled  bool               `json:"aiEnabled"`
	Visibility *visibilityPayload `json:"visibility,omitempty"`
	Validation *validationPayload `json:"validation,omitempty"`
}

type formRequest struct {
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Status            string         `json:"status"`
	Fields            []fieldPayload `json:"fields"`
	AIEnabled         bool           `json:"aiEnabled"`
	AIOverallEnabled  bool           `json:"aiOverallEnabled"`
	AIMinConfidence   float64        `json:"aiMinConfidence"`
	NotificationEmail string         `json:"notificationEmail"`
	WebhookURL        string         `json:"webhookUrl"`
	SlackWebhookURL   string         `json:"slackWebhookUrl"`
	GoogleSheetURL    string         `json:"googleSheetUrl"`
}

func (req formRequest) toCommand() adminapp.UpsertFormCommand {
	fields := make([]adminapp.FieldCommand, 0, len(req.Fields))
	for _, field := range req.Fields {
		cmd := adminapp.FieldCommand{
			ID:        field.ID,
			Label:     field.Label,
			Type:      field.Type,
			Required:  field.Required,
			Options:   field.Options,
			AIEnabled: field.AIEnabled,
		}
		if field.Visibility != nil {
			cmd.Visibility = &adminapp.VisibilityCommand{
				DependsOnID: field.Visibility.DependsOnID,
				Operator:    field.Visibility.Operator,
				Value:       field.Visibility.Value,
			}
		}
		if field.Validation != nil {
			cmd.Validation = &adminapp.ValidationCommand{
				MinLength: field.Validation.MinLength,
				MaxLength: field.Validation.MaxLength,
				MinDate:   field.Validation.MinDate,
				MaxDate:   field.Validation.MaxDate,
			}
		}
		fields = append(fields, cmd)
	}
	return adminapp.UpsertFormCommand{
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Fields:            fields,
		AIEnabled:         req.AIEnabled,
		AIOverallEnabled:  req.AIOverallEnabled,
		AIMinConfidence:   req.AIMinConfidence,
		NotificationEmail: req.NotificationEmail,
		WebhookURL:        req.WebhookURL,
		SlackWebhookURL:   req.SlackWebhookURL,
		GoogleSheetURL:    req.GoogleSheetURL,
	}
}

type formPayload struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	Status            string         `json:"status"`
	ShareID           string         `json:"shareId"`
	Fields            []fieldPayload `json:"fields"`
	AIEnabled         bool           `json:"aiEnabled"`
	AIOverallEnabled  bool           `json:"aiOverallEnabled"`
	AIMinConfidence   float64        `json:"aiMinConfidence"`
	NotificationEmail string         `json:"notificationEmail,omitempty"`
	WebhookURL        string         `json:"webhookUrl,omitempty"`
	SlackWebhookURL   string         `json:"slackWebhookUrl,omitempty"`
	GoogleSheetURL    string         `json:"googleSheetUrl,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	CreatedBy         string         `json:"createdBy,omitempty"`
}

func buildFormPayload(form admindomain.Form) formPayload {
	fields := make([]fieldPayload, 0, len(form.Fields))
	for _, field := range form.Fields {
		payload := fieldPayload{
			ID:        field.ID,
			Label:     field.Label,
			Type:      string(field.Type),
			Required:  field.Required,
			Options:   field.Options,
			AIEnabled: field.AIEnabled,
		}
		if field.Visibility != nil {
			payload.Visibility = &visibilityPayload{
				DependsOnID: field.Visibility.DependsOnID,
				Operator:    field.Visibility.Operator,
				Value:       field.Visibility.Value,
			}
		}
		if field.Validation != nil {
			payload.Validation = &validationPayload{
				MinLength: field.Validation.MinLength,
				MaxLength: field.Validation.MaxLength,
				MinDate:   field.Validation.MinDate,
				MaxDate:   field.Validation.MaxDate,
			}
		}
		fields = append(fields, payload)
	}
	return formPayload{
		ID:                form.ID,
		Title:             form.Title,
		Description:       form.Description,
		Status:            string(form.Status),
		ShareID:           form.ShareID,
		Fields:            fields,
		AIEnabled:         form.AIEnabled,
		AIOverallEnabled:  form.AIOverallEnabled,
		AIMinConfidence:   form.AIMinConfidence,
		NotificationEmail: form.NotificationEmail,
		WebhookURL:        form.WebhookURL,
		SlackWebhookURL:   form.SlackWebhookURL,
		GoogleSheetURL:    form.GoogleSheetURL,
		CreatedAt:         form.CreatedAt,
		UpdatedAt:         form.UpdatedAt,
		CreatedBy:         form.CreatedBy,
	}
}

func buildFormPayloads(forms []admindomain.Form) []formPayload {
	payloads := make([]formPayload, 0, len(forms))
	for _, form := range forms {
		payloads = append(payloads, buildFormPayload(form))
	}
	return payloads
}

type analysisPayload struct {
	OverallScore   *int     `json:"overallScore"`
	SentimentLabel string   `json:"sentimentLabel"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"keywords"`
	Model          string   `json:"model"`
}

type responsePayload struct {
	ID           string           `json:"id"`
	FormID       string           `json:"formId"`
	RespondentID string           `json:"respondentId"`
	Answers      map[string]any   `json:"answers"`
	Status       string           `json:"status"`
	Tags         []string         `json:"tags"`
	Memo         string           `json:"memo,omitempty"`
	AssigneeUID  string           `json:"assigneeUid,omitempty"`
	AssigneeName string           `json:"assigneeName,omitempty"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Analysis     *analysisPayload `json:"analysis,omitempty"`
}

func buildResponsePayload(response admindomain.Response) responsePayload {
	payload := responsePayload{
		ID:           response.ID,
		FormID:       response.FormID,
		RespondentID: response.RespondentID,
		Answers:      response.Answers,
		Status:       string(response.Status),
		Tags:         response.Tags,
		Memo:         response.Memo,
		AssigneeUID:  response.AssigneeUID,
		AssigneeName: response.AssigneeName,
		SubmittedAt:  response.SubmittedAt,
		UpdatedAt:    response.UpdatedAt,
	}
	if payload.Tags == nil {
		payload.Tags = []string{}
	}
	if response.Analysis != nil {
		keywords := response.Analysis.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		payload.Analysis = &analysisPayload{
			OverallScore:   response.Analysis.OverallScore,
			SentimentLabel: response.Analysis.SentimentLabel,
			Confidence:     response.Analysis.Confidence,
			Keywords:       keywords,
			Model:          response.Analysis.Model,
		}
	}
	return payload
}

type triageRequest struct {
	Status       *string   `json:"status"`
	Tags         *[]string `json:"tags"`
	Memo         *string   `json:"memo"`
	AssigneeUID  *string   `json:"assigneeUid"`
	AssigneeName *string   `json:"assigneeName"`
}

type optionCountPayload struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

type optionDistributionPayload struct {
	FieldID string               `json:"fieldId"`
	Label   string               `json:"label"`
	Counts  []optionCountPayload `json:"counts"`
}

type keywordCountPayload struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type sentimentTallyPayload struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type statsPayload struct {
	ResponseCount      int                         `json:"responseCount"`
	CompletionRate     int                         `json:"completionRate"`
	AverageAnswered    int                         `json:"averageAnswered"`
	OptionDistribution []optionDistributionPayload `json:"optionDistribution"`
	TopKeywords        []keywordCountPayload       `json:"topKeywords"`
	SentimentTally     sentimentTallyPayload       `json:"sentimentTally"`
}

func buildStatsPayload(stats admindomain.FormStats) statsPayload {
	distributions := make([]optionDistributionPayload, 0, len(stats.OptionDistribution))
	for _, dist := range stats.OptionDistribution {
		counts := make([]optionCountPayload, 0, len(dist.Counts))
		for _, count := range dist.Counts {
			counts = append(counts, optionCountPayload{Option: count.Option, Count: count.Count})
		}
		distributions = append(distributions, optionDistributionPayload{
			FieldID: dist.FieldID,
			Label:   dist.Label,
			Counts:  counts,
		})
	}
	keywords := make([]keywordCountPayload, 0, len(stats.TopKeywords))
	for _, keyword := range stats.TopKeywords {
		keywords = append(keywords, keywordCountPayload{Keyword: keyword.Keyword, Count: keyword.Count})
	}
	return statsPayload{
		ResponseCount:      stats.ResponseCount,
		CompletionRate:     stats.CompletionRate,
		AverageAnswered:    stats.AverageAnswered,
		OptionDistribution: distributions,
		TopKeywords:        keywords,
		SentimentTally: sentimentTallyPayload{
			Positive: stats.SentimentTally.Positive,
			Neutral:  stats.SentimentTally.Neutral,
			Negative: stats.SentimentTally.Negative,
		},
	}
}

type signupRequest struct {
	OrgName string `json:"orgName"`
	Email   string `json:"email"`
}

type profilePayload struct {
	UID     string `json:"uid"`
	Email   string `json:"email,omitempty"`
	OrgID   string `json:"orgId"`
	OrgName string `json:"orgName"`
	Role    string `json:"role"`
}

func buildProfilePayload(profile admindomain.UserProfile) profilePayload {
	return profilePayload{
		UID:     profile.UID,
		Email:   profile.Email,
		OrgID:   profile.OrgID,
		OrgName: profile.OrgName,
		Role:    string(profile.Role),
	}
}
