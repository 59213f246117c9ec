package rules

import (
	"github.com/leapstack-labs/tbcheck/pkg/check"
	"github.com/leapstack-labs/tbcheck/pkg/schema"
	"github.com/leapstack-labs/tbcheck/pkg/validate"
)

// ReportingMonthVariable is the catalog variable holding valid reporting months.
const ReportingMonthVariable = "Reporting Month"

// ScreeningDuplicateKey is the tuple identifying one screening event.
var ScreeningDuplicateKey = []schema.Field{
	schema.ServicePointRef,
	schema.Name,
	schema.AgeYear,
	schema.Sex,
	schema.ScreeningDate,
}

func regionCheck(t schema.TableName) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		return check.Membership(in.Table(t), in.Column(t, schema.Region), in.Catalog.Regions())
	}
}

func townshipCheck(t schema.TableName) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		return check.RegionTownship(in.Table(t),
			in.Column(t, schema.Region),
			in.Column(t, schema.Township),
			in.Catalog)
	}
}

func servicePointCheck(t schema.TableName) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		return check.ForeignKey(in.Table(t), in.Column(t, schema.ServicePointRef),
			in.Table(schema.ServicePoint), in.Column(schema.ServicePoint, schema.ServicePointCode))
	}
}

func registrationCheck(t schema.TableName) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		return check.ForeignKey(in.Table(t), in.Column(t, schema.RegistrationNumber),
			in.Table(schema.Patient), in.Column(schema.Patient, schema.RegistrationNumber))
	}
}

func ageCheck(t schema.TableName) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		lo, hi := in.Config.AgeBounds()
		return check.NumericRange(in.Table(t), in.Column(t, schema.AgeYear), lo, hi)
	}
}

func dateCheck(t schema.TableName, f schema.Field) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		lo, hi := in.Config.DateBounds()
		return check.DateRange(in.Table(t), in.Column(t, f), lo, hi)
	}
}

func prefixCheck(t schema.TableName) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		return check.NamePrefix(in.Table(t), in.Column(t, schema.Name), in.Column(t, schema.Sex))
	}
}

func duplicateCheck(t schema.TableName, fields ...schema.Field) validate.CheckFunc {
	return func(in *validate.Input) (check.ViolationSet, error) {
		cols := make([]string, len(fields))
		for i, f := range fields {
			cols[i] = in.Column(t, f)
		}
		return check.Duplicates(in.Table(t), cols...)
	}
}

func reportingMonthCheck(in *validate.Input) (check.ViolationSet, error) {
	return check.Membership(in.Table(schema.Screening),
		in.Column(schema.Screening, schema.ReportingMonth),
		in.Catalog.Values(ReportingMonthVariable))
}
