// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"go-iron-flow/logger"
)

// Namespace for all IronFlow metrics
var metricsNamespace = "IronFlow"

// Reuse a single CloudWatch client for all metric calls
var cwClient = cloudwatch.New(session.Must(session.NewSession()))

// PublishScoreboardConnections pushes the current scoreboard client count
func PublishScoreboardConnections(count int, tournamentID string) {
	putMetric("ScoreboardConnections", float64(count), "Count", tournamentID)
}

// PublishAttemptJudged counts a judged attempt
func PublishAttemptJudged(tournamentID string) {
	putMetric("AttemptsJudged", 1, "Count", tournamentID)
}

// PublishRecordsPromoted counts promoted all-time records on finish
func PublishRecordsPromoted(count int, tournamentID string) {
	putMetric("RecordsPromoted", float64(count), "Count", tournamentID)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string, tournamentID string) {
	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("TournamentID"),
						Value: aws.String(tournamentID),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
