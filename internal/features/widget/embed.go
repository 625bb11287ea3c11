package widget

import (
	"strings"
)

// embedScriptTemplate is the self-contained reporting widget served at
// /widget/embed.js. It renders a floating button that posts bug
// reports to the widget gateway using the embedded token.
const embedScriptTemplate = `(function () {
  'use strict';

  var BASE_URL = '__BASE_URL__';
  var TOKEN = '__TOKEN__';

  function api(path, options) {
    return fetch(BASE_URL + path, options).then(function (res) {
      if (!res.ok) {
        return res.json().then(function (body) {
          throw new Error(body.error || ('Request failed with status ' + res.status));
        });
      }
      return res.json();
    });
  }

  function createButton() {
    var button = document.createElement('button');
    button.textContent = 'Report a bug';
    button.setAttribute('style',
      'position:fixed;bottom:20px;right:20px;z-index:2147483647;' +
      'padding:10px 16px;border:none;border-radius:20px;cursor:pointer;' +
      'background:#d9480f;color:#fff;font-family:sans-serif;font-size:14px;');
    button.addEventListener('click', openForm);
    document.body.appendChild(button);
  }

  function openForm() {
    if (document.getElementById('bugtrail-widget-form')) {
      return;
    }

    var wrapper = document.createElement('div');
    wrapper.id = 'bugtrail-widget-form';
    wrapper.setAttribute('style',
      'position:fixed;bottom:70px;right:20px;z-index:2147483647;width:300px;' +
      'background:#fff;border:1px solid #ddd;border-radius:8px;padding:16px;' +
      'box-shadow:0 4px 12px rgba(0,0,0,.15);font-family:sans-serif;');

    wrapper.innerHTML =
      '<div style="font-weight:bold;margin-bottom:8px;">Report a bug</div>' +
      '<input id="bugtrail-title" placeholder="Short summary" ' +
      'style="width:100%;box-sizing:border-box;margin-bottom:8px;padding:6px;"/>' +
      '<textarea id="bugtrail-description" placeholder="What happened?" rows="4" ' +
      'style="width:100%;box-sizing:border-box;margin-bottom:8px;padding:6px;"></textarea>' +
      '<input id="bugtrail-email" placeholder="Your email (optional)" ' +
      'style="width:100%;box-sizing:border-box;margin-bottom:8px;padding:6px;"/>' +
      '<button id="bugtrail-submit" style="padding:6px 12px;">Send</button> ' +
      '<button id="bugtrail-cancel" style="padding:6px 12px;">Cancel</button>' +
      '<div id="bugtrail-status" style="margin-top:8px;font-size:12px;"></div>';

    document.body.appendChild(wrapper);

    document.getElementById('bugtrail-cancel').addEventListener('click', function () {
      wrapper.remove();
    });

    document.getElementById('bugtrail-submit').addEventListener('click', function () {
      var title = document.getElementById('bugtrail-title').value.trim();
      var status = document.getElementById('bugtrail-status');
      if (!title) {
        status.textContent = 'Please enter a summary.';
        return;
      }

      var payload = { title: title };
      var description = document.getElementById('bugtrail-description').value.trim();
      if (description) payload.description = description;
      var email = document.getElementById('bugtrail-email').value.trim();
      if (email) payload.reporterEmail = email;

      api('/widget/' + TOKEN + '/bugs', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify(payload)
      }).then(function () {
        status.textContent = 'Thank you, your report was sent.';
        setTimeout(function () { wrapper.remove(); }, 1500);
      }).catch(function (err) {
        status.textContent = err.message;
      });
    });
  }

  api('/widget/' + TOKEN + '/config', { method: 'GET' })
    .then(createButton)
    .catch(function () { /* invalid token, stay silent */ });
})();
`

func renderEmbedScript(baseURL, token string) string {
	script := strings.ReplaceAll(embedScriptTemplate, "__BASE_URL__", baseURL)

	return strings.ReplaceAll(script, "__TOKEN__", token)
}
