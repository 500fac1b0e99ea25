// Package notification holds the notification aggregate: a message addressed
// to a customer or a rider, delivered over one or more channels. Channel
// outcomes are recorded independently per channel and are decoupled from the
// read flag - a notification whose sms delivery failed can still be read
// in the app. Read notifications are purged after a retention window.
package notification
