package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"govintel/internal/modelregistry"
	"govintel/internal/modelregistry/registrytest"
	"govintel/internal/prediction/models"
	dErrors "govintel/pkg/domain-errors"
)

type EncodeSuite struct {
	suite.Suite
	demand *modelregistry.ArtifactSet
	crisis *modelregistry.ArtifactSet
}

func TestEncodeSuite(t *testing.T) {
	suite.Run(t, new(EncodeSuite))
}

func (s *EncodeSuite) SetupSuite() {
	var err error
	s.demand, err = modelregistry.LoadArtifactSet(registrytest.FS(), modelregistry.DemandForecasting)
	s.Require().NoError(err)
	s.crisis, err = modelregistry.LoadArtifactSet(registrytest.FS(), modelregistry.CrisisPrediction)
	s.Require().NoError(err)
}

func mumbaiDemand() *models.DemandForecastRequest {
	return &models.DemandForecastRequest{
		District:                "Mumbai",
		ServiceType:             "Ambulance_Emergency",
		Month:                   7,
		DayOfWeek:               1,
		IsMonsoon:               1,
		PopulationFactor:        2.5,
		UrbanRatio:              1.0,
		DemandLag7Days:          45.0,
		DemandLag30Days:         42.0,
		ResourceUtilizationRate: 0.75,
		ComplaintRate:           0.15,
		ResponseTimeMinutes:     16.5,
	}
}

func nagpurCrisis() *models.CrisisPredictionRequest {
	return &models.CrisisPredictionRequest{
		District:          "Nagpur",
		Month:             5,
		PopulationFactor:  1.5,
		DemandRequests:    80,
		PendingRequests:   35,
		CitizenComplaints: 12,
		ResponseTimeHours: 48.0,
		DemandLag7Days:    75.0,
		DemandLag30Days:   60.0,
		ResolutionRate:    0.45,
	}
}

func (s *EncodeSuite) TestDemandVector() {
	v, err := EncodeDemand(mumbaiDemand(), s.demand)
	s.Require().NoError(err)

	s.Equal(registrytest.DemandColumns, v.Columns())
	trend, ok := v.Get("demand_trend")
	s.True(ok)
	s.InDelta(3.0, trend, 1e-12)

	m := v.Map()
	s.Equal(4.0, m["district_encoded"])
	s.Equal(0.0, m["service_type_encoded"])
	s.Equal(16.5, m["response_time_minutes"])
}

func (s *EncodeSuite) TestCrisisVector() {
	v, err := EncodeCrisis(nagpurCrisis(), s.crisis)
	s.Require().NoError(err)

	s.Equal(registrytest.CrisisColumns, v.Columns())
	m := v.Map()
	s.Equal(5.0, m["district_encoded"])
	s.InDelta(100.0/49.0, m["response_efficiency"], 1e-12)
	s.Equal(15.0, m["demand_trend"])
	s.Equal(0.0, m["water_level_drop_7days"])
	s.Equal(0.0, m["water_level_drop_30days"])
}

func (s *EncodeSuite) TestColumnOrderIsStableAcrossCalls() {
	first, err := EncodeDemand(mumbaiDemand(), s.demand)
	s.Require().NoError(err)
	for i := 0; i < 20; i++ {
		req := mumbaiDemand()
		req.DemandLag7Days = float64(i)
		v, err := EncodeDemand(req, s.demand)
		s.Require().NoError(err)
		s.Equal(first.Columns(), v.Columns())
	}
	s.Equal(s.demand.Columns(), first.Columns())
}

func (s *EncodeSuite) TestUnknownDistrict() {
	req := mumbaiDemand()
	req.District = "Gotham"
	_, err := EncodeDemand(req, s.demand)

	var unknown *modelregistry.UnknownCategoryError
	s.Require().True(errors.As(err, &unknown))
	s.Equal("district", unknown.Field)
	s.Equal("Gotham", unknown.Value)

	creq := nagpurCrisis()
	creq.District = "Gotham"
	_, err = EncodeCrisis(creq, s.crisis)
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownCategory))
}

func (s *EncodeSuite) TestUnknownServiceType() {
	req := mumbaiDemand()
	req.ServiceType = "Drone_Delivery"
	_, err := EncodeDemand(req, s.demand)
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownCategory))
}

type fakeVocab struct {
	columns []string
}

func (f fakeVocab) CategoryCode(string, string) (int, error) { return 1, nil }
func (f fakeVocab) Columns() []string { return f.columns }

func TestAssembleIgnoresUnlistedAndRejectsUnknownColumns(t *testing.T) {
	v, err := EncodeDemand(mumbaiDemand(), fakeVocab{columns: []string{"demand_trend", "month"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"demand_trend", "month"}, v.Columns())
	assert.Equal(t, []float64{3, 7}, v.Values())

	_, err = EncodeDemand(mumbaiDemand(), fakeVocab{columns: []string{"month", "rainfall_mm"}})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestVectorAccessorsReturnCopies(t *testing.T) {
	v, err := EncodeDemand(mumbaiDemand(), fakeVocab{columns: []string{"month"}})
	require.NoError(t, err)

	vals := v.Values()
	vals[0] = 99
	cols := v.Columns()
	cols[0] = "x"

	got, ok := v.Get("month")
	assert.True(t, ok)
	assert.Equal(t, 7.0, got)
	_, ok = v.Get("x")
	assert.False(t, ok)
}
