package derive

import (
	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// Result values and lab readings the screening steps recognize.
const (
	ResultBactConfirmed       = "Bact confirmed TB"
	ResultClinicallyDiagnosed = "Clinically diagnosed TB"

	DuplicateFlag = "To recheck for duplication"
	OngoingFlag   = "Ongoing TB case"
)

var (
	tbResults       = []string{ResultClinicallyDiagnosed, ResultBactConfirmed}
	genePositive    = []string{"T", "TT", "TI", "RR"}
	truenatPositive = []string{"VT", "RR", "TI"}
	examFields      = []schema.Field{schema.ExamSputum, schema.ExamCXR, schema.ExamGeneXpert, schema.ExamTruenat}
	duplicateFields = []schema.Field{schema.ServicePointRef, schema.Name, schema.AgeYear, schema.Sex, schema.ScreeningDate}
)

// ScreeningPipeline returns the Screening steps in dependency order.
func ScreeningPipeline() *Pipeline {
	return &Pipeline{
		Table:   schema.Screening,
		Related: schema.Patient,
		Steps: []Step{
			{
				Field:       schema.PresumptiveTBReferred,
				Description: "1 if any examination result is recorded or Result is a TB diagnosis",
				Compute:     presumptiveReferred,
			},
			{
				Field:       schema.TBDetected,
				Description: "1 if Result is a TB diagnosis and the person was referred",
				Compute:     tbDetected,
			},
			{
				Field:       schema.BactConfirmedTB,
				Description: "1 if Result is Bact confirmed TB and the person was referred",
				Compute:     bactConfirmed,
			},
			{
				Field:       schema.ResultCheck,
				Description: "F when a positive lab reading is recorded as Bact confirmed TB, else T",
				Compute:     resultCheck,
			},
			{
				Field:       schema.DuplicateCheck,
				Description: "flags screenings sharing service point, name, age, sex and date",
				Compute:     duplicateCheck,
			},
			{
				Field:       schema.OngoingTBCaseCheck,
				Description: "flags screenings dated after the patient's enrollment",
				Compute:     ongoingCase,
			},
		},
	}
}

func presumptiveReferred(e *Env) ([]any, error) {
	if err := e.Require(append(examFields, schema.Result)...); err != nil {
		return nil, err
	}
	exams := make([]string, len(examFields))
	for i, f := range examFields {
		exams[i] = e.Col(f)
	}
	result := e.Col(schema.Result)
	return perRecord(e.Table, func(rec table.Record) any {
		for _, c := range exams {
			if !table.IsMissing(rec[c]) {
				return 1
			}
		}
		return flag(table.In(rec[result], tbResults...))
	}), nil
}

func tbDetected(e *Env) ([]any, error) {
	if err := e.Require(schema.Result, schema.PresumptiveTBReferred); err != nil {
		return nil, err
	}
	result, referred := e.Col(schema.Result), e.Col(schema.PresumptiveTBReferred)
	return perRecord(e.Table, func(rec table.Record) any {
		return flag(table.In(rec[result], tbResults...) && table.IsOne(rec[referred]))
	}), nil
}

func bactConfirmed(e *Env) ([]any, error) {
	if err := e.Require(schema.Result, schema.PresumptiveTBReferred); err != nil {
		return nil, err
	}
	result, referred := e.Col(schema.Result), e.Col(schema.PresumptiveTBReferred)
	return perRecord(e.Table, func(rec table.Record) any {
		return flag(table.Is(rec[result], ResultBactConfirmed) && table.IsOne(rec[referred]))
	}), nil
}

// resultCheck keeps the workbook's policy: without a positive lab reading the
// record passes regardless of Result.
func resultCheck(e *Env) ([]any, error) {
	if err := e.Require(schema.ExamSputum, schema.ExamGeneXpert, schema.ExamTruenat, schema.Result); err != nil {
		return nil, err
	}
	sputum, gene, truenat := e.Col(schema.ExamSputum), e.Col(schema.ExamGeneXpert), e.Col(schema.ExamTruenat)
	result := e.Col(schema.Result)
	return perRecord(e.Table, func(rec table.Record) any {
		labPositive := table.Is(rec[sputum], "Positive") ||
			table.In(rec[gene], genePositive...) ||
			table.In(rec[truenat], truenatPositive...)
		if labPositive && table.Is(rec[result], ResultBactConfirmed) {
			return "F"
		}
		return "T"
	}), nil
}

func duplicateCheck(e *Env) ([]any, error) {
	cols := make([]string, len(duplicateFields))
	for i, f := range duplicateFields {
		cols[i] = e.Col(f)
	}
	groups, err := check.DuplicateGroups(e.Table, cols...)
	if err != nil {
		return nil, err
	}
	out := make([]any, e.Table.Len())
	for i := range out {
		out[i] = ""
	}
	for _, g := range groups {
		for _, i := range g {
			out[i] = DuplicateFlag
		}
	}
	return out, nil
}

func ongoingCase(e *Env) ([]any, error) {
	out := make([]any, e.Table.Len())
	for i := range out {
		out[i] = ""
	}
	if e.Related.IsEmpty() {
		return out, nil
	}
	if err := e.Require(schema.RegistrationNumber, schema.ScreeningDate); err != nil {
		return nil, err
	}
	refKey, enrolled := e.RelatedCol(schema.RegistrationNumber), e.RelatedCol(schema.EnrolledDate)
	if err := check.RequireColumns(e.Related, refKey, enrolled); err != nil {
		return nil, err
	}

	patients := newLookup(e.Related, refKey)
	key, screened := e.Col(schema.RegistrationNumber), e.Col(schema.ScreeningDate)
	for i, rec := range e.Table.Records {
		match, ok := patients.record(rec[key])
		if !ok {
			continue
		}
		enrolledOn, ok := table.Date(match[enrolled])
		if !ok {
			continue
		}
		screenedOn, ok := table.Date(rec[screened])
		if ok && screenedOn.After(enrolledOn) {
			out[i] = OngoingFlag
		}
	}
	return out, nil
}
