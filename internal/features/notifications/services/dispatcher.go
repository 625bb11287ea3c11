package notifications_services

import (
	"fmt"

	"bugtrail/internal/util/logger"
)

var log = logger.GetLogger()

// Dispatcher sends notification emails in the background. Delivery
// failures are logged and never surfaced to the request that triggered
// the notification.
type Dispatcher struct {
	emailService *EmailService
	publicURL    string
}

func NewDispatcher(emailService *EmailService, publicURL string) *Dispatcher {
	return &Dispatcher{
		emailService: emailService,
		publicURL:    publicURL,
	}
}

func (d *Dispatcher) dispatch(kind string, to string, subject string, tmpl string, data any) {
	if !d.emailService.IsConfigured() {
		return
	}

	go func() {
		html, err := renderTemplate(tmpl, data)
		if err != nil {
			log.Error("Failed to render notification email", "kind", kind, "error", err)
			return
		}

		if err := d.emailService.SendHTMLEmail([]string{to}, subject, html); err != nil {
			log.Error("Failed to send notification email", "kind", kind, "error", err)
		}
	}()
}

// NotifyInvitation emails an invited address a link to join a project.
func (d *Dispatcher) NotifyInvitation(to string, inviterName string, projectName string, token string) {
	d.dispatch("invitation", to,
		fmt.Sprintf("You have been invited to %s", projectName),
		invitationEmailTemplate,
		invitationEmailData{
			InviterName:   inviterName,
			ProjectName:   projectName,
			InvitationURL: fmt.Sprintf("%s/invitations/%s", d.publicURL, token),
		})
}

// NotifyAccessRequested emails a project owner that someone asked to join.
func (d *Dispatcher) NotifyAccessRequested(to string, requesterName string, projectName string, projectSlug string) {
	d.dispatch("access_requested", to,
		fmt.Sprintf("%s requested access to %s", requesterName, projectName),
		accessRequestedEmailTemplate,
		accessRequestedEmailData{
			RequesterName: requesterName,
			ProjectName:   projectName,
			RequestsURL:   fmt.Sprintf("%s/projects/%s/members", d.publicURL, projectSlug),
		})
}

// NotifyAccessReviewed emails a requester the outcome of their request.
func (d *Dispatcher) NotifyAccessReviewed(to string, projectName string, projectSlug string, approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}

	d.dispatch("access_reviewed", to,
		fmt.Sprintf("Your access request to %s was %s", projectName, outcome),
		accessReviewedEmailTemplate,
		accessReviewedEmailData{
			ProjectName: projectName,
			Approved:    approved,
			ProjectURL:  fmt.Sprintf("%s/projects/%s", d.publicURL, projectSlug),
		})
}

// NotifyBugDeployed emails a bug reporter that their fix went live.
func (d *Dispatcher) NotifyBugDeployed(to string, bugTitle string, projectName string, projectSlug string) {
	d.dispatch("bug_deployed", to,
		fmt.Sprintf("Your bug report in %s has been deployed", projectName),
		bugDeployedEmailTemplate,
		bugDeployedEmailData{
			BugTitle:    bugTitle,
			ProjectName: projectName,
			ProjectURL:  fmt.Sprintf("%s/projects/%s", d.publicURL, projectSlug),
		})
}
