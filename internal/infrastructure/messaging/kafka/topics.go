package kafka

// Topic names for ledger events
const (
	TopicTransactionSubmissions = "ledger.commands.transaction-submissions"
	TopicTransactionAccepted    = "ledger.transactions.accepted"
	TopicTransactionRejected    = "ledger.transactions.rejected"
	TopicAccountLocked          = "ledger.accounts.locked"
)

// GetAllTopics returns list of all topics
func GetAllTopics() []string {
	return []string{
		TopicTransactionSubmissions,
		TopicTransactionAccepted,
		TopicTransactionRejected,
		TopicAccountLocked,
	}
}
