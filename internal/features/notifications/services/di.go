package notifications_services

import (
	"bugtrail/internal/config"
)

var emailService = NewEmailService(SmtpConfig{
	Host:     config.GetEnv().SmtpHost,
	Port:     config.GetEnv().SmtpPort,
	Username: config.GetEnv().SmtpUsername,
	Password: config.GetEnv().SmtpPassword,
	From:     config.GetEnv().SmtpFrom,
	FromName: config.GetEnv().SmtpFromName,
})

var dispatcher = NewDispatcher(emailService, config.GetEnv().PublicURL)

func GetDispatcher() *Dispatcher {
	return dispatcher
}
