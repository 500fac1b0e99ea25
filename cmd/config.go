package cmd

// Config carries the environment configuration for the coordinator.
// Values arrive as strings from the environment; consumers parse what they
// need.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost              string
	KafkaOrderStatusTopic  string
	KafkaVerificationTopic string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSDryRun        string

	EditConflictPolicy        string
	NotificationRetentionDays string
}
