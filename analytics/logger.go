package analytics

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogFileDataCollector struct {
	fileName string
	logger   *zap.Logger
}

func NewLogFileDataCollector(fileName string) (*LogFileDataCollector, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	core := zapcore.NewCore(fileEncoder, writer, zapcore.InfoLevel)
	return &LogFileDataCollector{
		fileName: fileName,
		logger:   zap.New(core),
	}, nil
}

func (lc *LogFileDataCollector) RecordNotificationSent(rec NotificationRecord) {
	lc.logger.Info("sent", recordFields(rec)...)
}

func (lc *LogFileDataCollector) RecordNotificationFailure(rec NotificationRecord, status string, reason string) {
	lc.logger.Info("failure", append(recordFields(rec), zap.String("status", status), zap.String("reason", reason))...)
}

func (lc *LogFileDataCollector) Sync() error {
	return lc.logger.Sync()
}

func recordFields(rec NotificationRecord) []zap.Field {
	return []zap.Field{
		zap.String("id", rec.Id),
		zap.String("workflow", rec.Workflow),
		zap.String("action", rec.Action),
		zap.String("item", rec.Item),
		zap.Strings("to", rec.To),
		zap.Strings("cc", rec.Cc),
		zap.String("subject", rec.Subject),
	}
}
