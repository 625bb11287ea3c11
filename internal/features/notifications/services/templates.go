package notifications_services

type invitationEmailData struct {
	InviterName   string
	ProjectName   string
	InvitationURL string
}

type accessRequestedEmailData struct {
	RequesterName string
	ProjectName   string
	RequestsURL   string
}

type accessReviewedEmailData struct {
	ProjectName string
	Approved    bool
	ProjectURL  string
}

type bugDeployedEmailData struct {
	BugTitle    string
	ProjectName string
	ProjectURL  string
}

const emailStyle = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { border-bottom: 2px solid #d9480f; padding-bottom: 10px; margin-bottom: 20px; }
        .button { display: inline-block; padding: 12px 24px; background: #d9480f; color: white; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #666; }
        .link { word-break: break-all; color: #d9480f; }`

const invitationEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invitation to {{.ProjectName}}</title>
    <style>
        ` + emailStyle + `
    </style>
</head>
<body>
    <div class="header">
        <h1>BugTrail</h1>
    </div>

    <h2>You have been invited</h2>

    <p>{{.InviterName}} invited you to join the project <strong>{{.ProjectName}}</strong>.</p>

    <p>
        <a href="{{.InvitationURL}}" class="button">View Invitation</a>
    </p>

    <p>Or copy and paste this link into your browser:</p>
    <p class="link">{{.InvitationURL}}</p>

    <p>This invitation will expire in 7 days.</p>

    <div class="footer">
        <p>If you were not expecting this invitation, you can safely ignore this email.</p>
    </div>
</body>
</html>`

const accessRequestedEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Access request for {{.ProjectName}}</title>
    <style>
        ` + emailStyle + `
    </style>
</head>
<body>
    <div class="header">
        <h1>BugTrail</h1>
    </div>

    <h2>New access request</h2>

    <p>{{.RequesterName}} asked to join <strong>{{.ProjectName}}</strong>.</p>

    <p>
        <a href="{{.RequestsURL}}" class="button">Review Request</a>
    </p>

    <div class="footer">
        <p>You receive this email because you own this project.</p>
    </div>
</body>
</html>`

const accessReviewedEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Access request update for {{.ProjectName}}</title>
    <style>
        ` + emailStyle + `
    </style>
</head>
<body>
    <div class="header">
        <h1>BugTrail</h1>
    </div>

    {{if .Approved}}
    <h2>You are in!</h2>

    <p>Your request to join <strong>{{.ProjectName}}</strong> was approved.</p>

    <p>
        <a href="{{.ProjectURL}}" class="button">Open Project</a>
    </p>
    {{else}}
    <h2>Request declined</h2>

    <p>Your request to join <strong>{{.ProjectName}}</strong> was rejected by the project owner.</p>
    {{end}}

    <div class="footer">
        <p>You receive this email because you requested access to this project.</p>
    </div>
</body>
</html>`

const bugDeployedEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Fix deployed in {{.ProjectName}}</title>
    <style>
        ` + emailStyle + `
    </style>
</head>
<body>
    <div class="header">
        <h1>BugTrail</h1>
    </div>

    <h2>Your report has been deployed</h2>

    <p>The fix for <strong>{{.BugTitle}}</strong> in <strong>{{.ProjectName}}</strong> is now live.</p>

    <p>
        <a href="{{.ProjectURL}}" class="button">Open Project</a>
    </p>

    <div class="footer">
        <p>You receive this email because you reported this bug.</p>
    </div>
</body>
</html>`
