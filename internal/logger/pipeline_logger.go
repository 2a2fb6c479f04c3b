package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for the dataset build.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogTableLoaded logs a historical table read from disk.
func (p *PipelineLogger) LogTableLoaded(table, path string, rows int, columns []string) {
	p.WithFields(logrus.Fields{
		"table":   table,
		"path":    path,
		"rows":    rows,
		"columns": columns,
	}).Info("Table loaded")
}

// LogStep logs the column set after a merge or derivation step.
func (p *PipelineLogger) LogStep(step string, rows int, columns []string) {
	p.WithFields(logrus.Fields{
		"step":    step,
		"rows":    rows,
		"columns": columns,
	}).Debug("Pipeline step completed")
}

// LogDatasetWritten logs the final training table.
func (p *PipelineLogger) LogDatasetWritten(path string, rows, winners int) {
	p.WithFields(logrus.Fields{
		"path":    path,
		"rows":    rows,
		"winners": winners,
	}).Info("Dataset written")
}

// LogSkippedRows logs rows dropped because a field could not be parsed.
func (p *PipelineLogger) LogSkippedRows(table string, skipped int) {
	if skipped == 0 {
		return
	}
	p.WithFields(logrus.Fields{
		"table":   table,
		"skipped": skipped,
	}).Warn("Skipped unparsable rows")
}
