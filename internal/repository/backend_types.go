package repository

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/previsa-console/internal/models"
)

var jsonNull = []byte("null")

// listPayload accepts both `{ "data": [...] }` and a bare JSON array.
type listPayload[T any] struct {
	Items []T
}

func (p *listPayload[T]) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		p.Items = nil
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &p.Items)
	}
	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	p.Items = wrapped.Data
	return nil
}

// entityPayload accepts an entity either bare or wrapped in `{ "data": {...} }`.
type entityPayload[T any] struct {
	Item T
}

func (p *entityPayload[T]) UnmarshalJSON(raw []byte) error {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && len(probe.Data) > 0 && probe.Data[0] == '{' {
		return json.Unmarshal(probe.Data, &p.Item)
	}
	return json.Unmarshal(raw, &p.Item)
}

// looseString decodes strings, numbers and booleans into their text form.
type looseString string

func (s *looseString) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(trimmed)
	return nil
}

// looseFloat decodes numbers and numeric strings. Blank values leave it unset.
type looseFloat struct {
	Value float64
	Set   bool
}

func (f *looseFloat) UnmarshalJSON(raw []byte) error {
	var text looseString
	if err := text.UnmarshalJSON(raw); err != nil {
		return err
	}
	value := strings.TrimSpace(string(text))
	if value == "" {
		*f = looseFloat{}
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*f = looseFloat{}
		return nil
	}
	*f = looseFloat{Value: parsed, Set: true}
	return nil
}

func (f looseFloat) ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// looseTime tolerates empty or unparsable timestamps.
type looseTime struct {
	time.Time
}

func (t *looseTime) UnmarshalJSON(raw []byte) error {
	var text looseString
	if err := text.UnmarshalJSON(raw); err != nil {
		return err
	}
	value := strings.TrimSpace(string(text))
	t.Time = time.Time{}
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

func (t looseTime) ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// ref is a reference the backend sends either populated or as a bare id string.
type ref struct {
	ID          string
	Name        string
	FullName    string
	CountryName string
}

func (r *ref) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	*r = ref{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}
	if trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.ID)
	}
	var populated struct {
		ID          looseString `json:"_id"`
		Name        string      `json:"name"`
		FullName    string      `json:"fullName"`
		CountryName string      `json:"countryName"`
	}
	if err := json.Unmarshal(trimmed, &populated); err != nil {
		return err
	}
	r.ID = string(populated.ID)
	r.Name = populated.Name
	r.FullName = populated.FullName
	r.CountryName = populated.CountryName
	return nil
}

func (r ref) manager() models.Manager {
	return models.Manager{ID: r.ID, Name: r.Name}
}

func (r ref) managerPtr() *models.Manager {
	if r.ID == "" && r.Name == "" {
		return nil
	}
	m := r.manager()
	return &m
}

type backendCountry struct {
	ID          string    `json:"_id"`
	CountryName string    `json:"countryName"`
	CreatedAt   looseTime `json:"createdAt"`
}

func (c backendCountry) toModel() models.Country {
	return models.Country{ID: c.ID, CountryName: c.CountryName, CreatedAt: c.CreatedAt.Time}
}

type backendJob struct {
	ID            string     `json:"_id"`
	JobTitle      string     `json:"jobTitle"`
	Description   string     `json:"description"`
	WorkTime      string     `json:"WorkTime"`
	Salary        looseFloat `json:"salary"`
	ServiceCharge looseFloat `json:"serviceCharge"`
	AdminCharge   looseFloat `json:"adminCharge"`
	Country       ref        `json:"country"`
	CreatedAt     looseTime  `json:"createdAt"`
}

func (j backendJob) toModel() models.Job {
	job := models.Job{
		ID:            j.ID,
		JobTitle:      j.JobTitle,
		Description:   j.Description,
		WorkTime:      j.WorkTime,
		Salary:        j.Salary.ptr(),
		ServiceCharge: j.ServiceCharge.Value,
		AdminCharge:   j.AdminCharge.Value,
		CreatedAt:     j.CreatedAt.Time,
	}
	if j.Country.ID != "" || j.Country.CountryName != "" {
		job.Country = &models.CountryRef{ID: j.Country.ID, CountryName: j.Country.CountryName}
	}
	return job
}

// optionJob is the `options` field of an Option. The backend sends null, "", {} or [] while the
// option is open. Any other string, object or array means a job was attached; the job itself is
// kept when the value looks like one (a bare id or a populated job).
type optionJob struct {
	Job *backendJob
}

func (o *optionJob) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	o.Job = nil
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		if id = strings.TrimSpace(id); id != "" {
			o.Job = &backendJob{ID: id}
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		var job backendJob
		if err := json.Unmarshal(trimmed, &job); err != nil {
			job = backendJob{}
		}
		o.Job = &job
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		var first optionJob
		if err := first.UnmarshalJSON(items[0]); err == nil && first.Job != nil {
			o.Job = first.Job
			return nil
		}
		o.Job = &backendJob{}
	}
	return nil
}

type backendOption struct {
	ID              string    `json:"_id"`
	FormID          ref       `json:"formID"`
	RequestedBy     ref       `json:"requestedBy"`
	RequestedTo     ref       `json:"requestedTo"`
	RequestMessage  string    `json:"requestMessage"`
	Options         optionJob `json:"options"`
	ResponseMessage string    `json:"responseMessage"`
	CreatedAt       looseTime `json:"createdAt"`
}

func (o backendOption) toModel() models.Option {
	opt := models.Option{
		ID:              o.ID,
		Lead:            models.LeadRef{ID: o.FormID.ID, FullName: o.FormID.FullName},
		RequestedBy:     o.RequestedBy.manager(),
		RequestedTo:     o.RequestedTo.manager(),
		RequestMessage:  o.RequestMessage,
		ResponseMessage: o.ResponseMessage,
		CreatedAt:       o.CreatedAt.Time,
	}
	if o.Options.Job != nil {
		job := o.Options.Job.toModel()
		opt.Job = &job
	}
	return opt
}

type backendOfficeConfirmation struct {
	ServiceCharge looseString `json:"ServiceCharge"`
	MedicalCharge looseString `json:"MedicalCharge"`
}

type backendLead struct {
	ID            string      `json:"_id"`
	RegNo         looseString `json:"regNo"`
	FullName      string      `json:"fullName"`
	FatherName    string      `json:"fatherName"`
	Address       string      `json:"address"`
	State         string      `json:"state"`
	PinCode       looseString `json:"pinCode"`
	WhatsAppNo    looseString `json:"whatsAppNo"`
	FamilyContact looseString `json:"familyContact"`
	ContactNo     looseString `json:"contactNo"`
	Email         string      `json:"email"`

	PassportNumber string      `json:"passportNumber"`
	DateOfBirth    looseString `json:"dateOfBirth"`
	PassportExpiry looseString `json:"passportExpiry"`
	Nationality    string      `json:"nationality"`
	ECR            bool        `json:"ecr"`
	ECNR           bool        `json:"ecnr"`

	Occupation            string      `json:"occupation"`
	PlaceOfEmployment     string      `json:"placeOfEmployment"`
	LastExperience        string      `json:"lastExperience"`
	LastSalaryPostDetails string      `json:"lastSalaryPostDetails"`
	ExpectedSalary        looseString `json:"expectedSalary"`
	MedicalReport         string      `json:"medicalReport"`
	InterviewStatus       string      `json:"InterviewStatus"`
	PCCStatus             string      `json:"pccStatus"`

	Photo     string `json:"photo"`
	Signature string `json:"Sign"`

	OfficeConfirmation backendOfficeConfirmation `json:"officeConfirmation"`

	TransferredToFinalVisaManager bool      `json:"transferredToFinalVisaManager"`
	TransferredForPreVisaBy       ref       `json:"transferredForPreVisaBy"`
	TransferredDate               looseTime `json:"transferredDate"`
	Rejected                      bool      `json:"rejected"`
	Status                        string    `json:"status"`
	CreatedAt                     looseTime `json:"createdAt"`
}

func (l backendLead) toModel() models.Lead {
	return models.Lead{
		ID:            l.ID,
		RegNo:         string(l.RegNo),
		FullName:      l.FullName,
		FatherName:    l.FatherName,
		Address:       l.Address,
		State:         l.State,
		PinCode:       string(l.PinCode),
		WhatsAppNo:    string(l.WhatsAppNo),
		FamilyContact: string(l.FamilyContact),
		ContactNo:     string(l.ContactNo),
		Email:         l.Email,

		PassportNumber: l.PassportNumber,
		DateOfBirth:    string(l.DateOfBirth),
		PassportExpiry: string(l.PassportExpiry),
		Nationality:    l.Nationality,
		ECR:            l.ECR,
		ECNR:           l.ECNR,

		Occupation:            l.Occupation,
		PlaceOfEmployment:     l.PlaceOfEmployment,
		LastExperience:        l.LastExperience,
		LastSalaryPostDetails: l.LastSalaryPostDetails,
		ExpectedSalary:        string(l.ExpectedSalary),
		MedicalReport:         l.MedicalReport,
		InterviewStatus:       l.InterviewStatus,
		PCCStatus:             l.PCCStatus,

		Photo:     l.Photo,
		Signature: l.Signature,

		OfficeConfirmation: models.OfficeConfirmation{
			ServiceCharge: string(l.OfficeConfirmation.ServiceCharge),
			MedicalCharge: string(l.OfficeConfirmation.MedicalCharge),
		},

		TransferredToFinalVisaManager: l.TransferredToFinalVisaManager,
		TransferredForPreVisaBy:       l.TransferredForPreVisaBy.managerPtr(),
		TransferredDate:               l.TransferredDate.ptr(),
		Rejected:                      l.Rejected,
		Status:                        l.Status,
		CreatedAt:                     l.CreatedAt.Time,
	}
}

type backendManager struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ackPayload is the `{success?, message}` acknowledgement some mutating endpoints return.
type ackPayload struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}
