package derive

import (
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/table"
)

var (
	newCaseTypes      = []string{"New", "Relapse"}
	communityChannels = []string{"Volunteer", "ICHV"}
	knownHIVStatus    = []string{"Positive", "Negative"}
	successOutcomes   = []string{"Cure", "Complete", "Cured", "Completed", "Treatment Completed"}
	curedOutcomes     = []string{"Cure", "Cured"}
	pulmonaryTypes    = []string{"P", "Pulmonary TB"}
)

// Check outcomes.
const (
	Fail = "Fail"
	OK   = "OK"
	Yes  = "Yes"
)

// childAge is the age from which the child regimen is wrong.
const childAge = 15

// PatientPipeline returns the Patient steps in dependency order. The related
// table is the enriched Screening sheet.
func PatientPipeline() *Pipeline {
	return &Pipeline{
		Table:   schema.Patient,
		Related: schema.Screening,
		Steps: []Step{
			{
				Field:       schema.TBDT1,
				Description: "1 for New or Relapse patients",
				Compute:     tbdt1,
			},
			{
				Field:       schema.TBDT3c,
				Description: "1 for new cases referred by a Volunteer or ICHV",
				Compute:     tbdt3c,
			},
			{
				Field:       schema.TBP1,
				Description: "1 when TPT regimen and start date are both recorded",
				Compute:     tbp1,
			},
			{
				Field:       schema.TBHIV5,
				Description: "1 for new cases with a known HIV status",
				Compute:     tbhiv5,
			},
			{
				Field:       schema.TBO2aN,
				Description: "1 for cohort patients with a successful outcome",
				Compute:     tbo2aN,
			},
			{
				Field:       schema.ChannelScreening,
				Description: "screening Channel for the registration number",
				Compute:     joined(schema.Channel),
			},
			{
				Field:       schema.BCScreening,
				Description: "screening Bact confirmed TB for the registration number",
				Compute:     joined(schema.BactConfirmedTB),
			},
			{
				Field:       schema.TBDetectedScreening,
				Description: "screening TB Detected for the registration number",
				Compute:     joined(schema.TBDetected),
			},
			{
				Field:       schema.RegimenCheck,
				Description: "Fail for IR given to non-new patients or CR given to patients 15 or older",
				Compute:     regimenCheck,
			},
			{
				Field:       schema.TypeOfDiseaseCheck,
				Description: "Fail for bacteriologically confirmed cases not recorded as pulmonary",
				Compute:     typeOfDiseaseCheck,
			},
			{
				Field:       schema.OutcomeCheck,
				Description: "Fail for a Cured outcome without BC = 1",
				Compute:     outcomeCheck,
			},
			{
				Field:       schema.TinCheck,
				Description: "Yes when the registration number has no screening record",
				Compute:     tinCheck,
			},
		},
	}
}

func tbdt1(e *Env) ([]any, error) {
	if err := e.Require(schema.PatientType); err != nil {
		return nil, err
	}
	typ := e.Col(schema.PatientType)
	return perRecord(e.Table, func(rec table.Record) any {
		return flag(table.In(rec[typ], newCaseTypes...))
	}), nil
}

// tbdt3c reads the sheet's own screening channel when it has one, and
// otherwise the Channel of the matching screening record.
func tbdt3c(e *Env) ([]any, error) {
	if err := e.Require(schema.TBDT1); err != nil {
		return nil, err
	}
	var channels []any
	if own := e.Col(schema.ScreeningChannel); e.Table.HasColumn(own) {
		channels = e.Table.Column(own)
	} else {
		if err := e.Require(schema.RegistrationNumber); err != nil {
			return nil, err
		}
		channels = joinColumn(e.Table, e.Col(schema.RegistrationNumber),
			e.Related, e.RelatedCol(schema.RegistrationNumber), e.RelatedCol(schema.Channel))
	}
	dt1 := e.Col(schema.TBDT1)
	out := make([]any, e.Table.Len())
	for i, rec := range e.Table.Records {
		out[i] = flag(table.IsOne(rec[dt1]) && table.In(channels[i], communityChannels...))
	}
	return out, nil
}

func tbp1(e *Env) ([]any, error) {
	if err := e.Require(schema.TPTRegimen, schema.TPTStartDate); err != nil {
		return nil, err
	}
	regimen, start := e.Col(schema.TPTRegimen), e.Col(schema.TPTStartDate)
	return perRecord(e.Table, func(rec table.Record) any {
		return flag(!table.IsMissing(rec[regimen]) && !table.IsMissing(rec[start]))
	}), nil
}

func tbhiv5(e *Env) ([]any, error) {
	if err := e.Require(schema.TBDT1, schema.HIVStatus); err != nil {
		return nil, err
	}
	dt1, hiv := e.Col(schema.TBDT1), e.Col(schema.HIVStatus)
	return perRecord(e.Table, func(rec table.Record) any {
		return flag(table.IsOne(rec[dt1]) && table.In(rec[hiv], knownHIVStatus...))
	}), nil
}

// tbo2aN is 0 throughout when the sheet has no denominator column.
func tbo2aN(e *Env) ([]any, error) {
	denominator := e.Col(schema.OutcomeDenominator)
	if !e.Table.HasColumn(denominator) {
		return perRecord(e.Table, func(table.Record) any { return 0 }), nil
	}
	if err := e.Require(schema.TreatmentOutcome); err != nil {
		return nil, err
	}
	outcome := e.Col(schema.TreatmentOutcome)
	return perRecord(e.Table, func(rec table.Record) any {
		return flag(table.IsOne(rec[denominator]) && table.In(rec[outcome], successOutcomes...))
	}), nil
}

// joined returns a step copying a Screening field onto each patient.
func joined(f schema.Field) func(e *Env) ([]any, error) {
	return func(e *Env) ([]any, error) {
		if err := e.Require(schema.RegistrationNumber); err != nil {
			return nil, err
		}
		return joinColumn(e.Table, e.Col(schema.RegistrationNumber),
			e.Related, e.RelatedCol(schema.RegistrationNumber), e.RelatedCol(f)), nil
	}
}

func regimenCheck(e *Env) ([]any, error) {
	if err := e.Require(schema.TreatmentRegimen, schema.PatientType, schema.AgeYear); err != nil {
		return nil, err
	}
	regimen, typ, age := e.Col(schema.TreatmentRegimen), e.Col(schema.PatientType), e.Col(schema.AgeYear)
	return perRecord(e.Table, func(rec table.Record) any {
		switch {
		case table.Is(rec[regimen], "IR"):
			if !table.IsMissing(rec[typ]) && !table.Is(rec[typ], "New") {
				return Fail
			}
		case table.Is(rec[regimen], "CR"):
			years, ok := table.Number(rec[age])
			if !ok || years >= childAge {
				return Fail
			}
		}
		return OK
	}), nil
}

func typeOfDiseaseCheck(e *Env) ([]any, error) {
	if err := e.Require(schema.BCScreening, schema.DiseaseType); err != nil {
		return nil, err
	}
	bc, disease := e.Col(schema.BCScreening), e.Col(schema.DiseaseType)
	return perRecord(e.Table, func(rec table.Record) any {
		if table.IsOne(rec[bc]) && !table.In(rec[disease], pulmonaryTypes...) {
			return Fail
		}
		return OK
	}), nil
}

// outcomeCheck treats an absent BC column as BC != 1.
func outcomeCheck(e *Env) ([]any, error) {
	if err := e.Require(schema.TreatmentOutcome); err != nil {
		return nil, err
	}
	outcome, bc := e.Col(schema.TreatmentOutcome), e.Col(schema.BC)
	return perRecord(e.Table, func(rec table.Record) any {
		if table.In(rec[outcome], curedOutcomes...) && !table.IsOne(rec[bc]) {
			return Fail
		}
		return OK
	}), nil
}

// tinCheck flags patients with no screening record. A missing registration
// number never matches, so such patients are flagged too.
func tinCheck(e *Env) ([]any, error) {
	if err := e.Require(schema.RegistrationNumber); err != nil {
		return nil, err
	}
	key := e.Col(schema.RegistrationNumber)
	screened := newLookup(e.Related, e.RelatedCol(schema.RegistrationNumber))
	return perRecord(e.Table, func(rec table.Record) any {
		if screened == nil {
			return ""
		}
		if _, ok := screened.record(rec[key]); !ok {
			return Yes
		}
		return ""
	}), nil
}
