package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for live predictions.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "predictor"),
	}
}

// LogSessionResolved logs the qualifying session chosen for a race.
func (p *PredictionLogger) LogSessionResolved(country string, year, sessionKey, meetingKey int) {
	p.WithFields(logrus.Fields{
		"country":     country,
		"year":        year,
		"session_key": sessionKey,
		"meeting_key": meetingKey,
	}).Info("Qualifying session resolved")
}

// LogGridBuilt logs the size of the reconstructed grid.
func (p *PredictionLogger) LogGridBuilt(laps, drivers int) {
	p.WithFields(logrus.Fields{
		"laps":    laps,
		"drivers": drivers,
	}).Debug("Grid built from lap times")
}

// LogPrediction logs the outcome of a prediction run.
func (p *PredictionLogger) LogPrediction(strategy string, drivers int, favourite string, score float64) {
	p.WithFields(logrus.Fields{
		"strategy":  strategy,
		"drivers":   drivers,
		"favourite": favourite,
		"score":     score,
	}).Info("Prediction completed")
}

// LogPredictionError logs a failed prediction run.
func (p *PredictionLogger) LogPredictionError(country string, year int, err error) {
	p.WithFields(logrus.Fields{
		"country": country,
		"year":    year,
	}).WithError(err).Error("Prediction failed")
}

// LogUnknownDriver logs an entrant that could not be matched. reason is
// "no_listing" when the live listing lacks the number and "no_history" when
// the reference has no training rows.
func (p *PredictionLogger) LogUnknownDriver(driverNumber int, driverRef, reason string) {
	p.WithFields(logrus.Fields{
		"driver_number": driverNumber,
		"driver_ref":    driverRef,
		"reason":        reason,
	}).Debug("Unknown driver")
}

// LogFavouriteChanged logs a change of favourite since the previous run.
func (p *PredictionLogger) LogFavouriteChanged(previous, current string) {
	p.WithFields(logrus.Fields{
		"previous": previous,
		"current":  current,
	}).Info("Favourite changed")
}
