package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/littlehouse"
	"github.com/eringen/littlehouse/content"
)

func StudyLogin(p littlehouse.Page, showError bool) templ.Component {
	return layout(p, "", component(func(w *writer) {
		w.raw(`<section class="study-login"><h1>`)
		w.text(label(p.Locale, "login_title"))
		w.raw(`</h1>`)
		if showError {
			w.raw(`<p class="error" role="alert">`)
			w.text(label(p.Locale, "bad_pass"))
			w.raw(`</p>`)
		}
		w.raw(`<form method="post" action="`)
		w.text(apiPrefix(p) + "/api/study/login")
		w.raw(`">`)
		csrfField(w, p)
		w.raw(`<label>`)
		w.text(label(p.Locale, "passphrase"))
		w.raw(` <input type="password" name="password" required autofocus></label> <button type="submit">`)
		w.text(label(p.Locale, "enter"))
		w.raw(`</button></form></section>`)
	}))
}

func StudyDesk(p littlehouse.Page, posts []content.PostMeta, images []littlehouse.Image) templ.Component {
	return layout(p, "", component(func(w *writer) {
		w.raw(`<section class="desk" data-csrf="`)
		w.text(p.CSRFToken)
		w.raw(`" data-prefix="`)
		w.text(apiPrefix(p))
		w.raw(`"><h1>`)
		w.text(label(p.Locale, "desk"))
		w.raw(`</h1><form method="post" action="`)
		w.text(apiPrefix(p) + "/api/study/logout")
		w.raw(`">`)
		csrfField(w, p)
		w.raw(`<button type="submit">`)
		w.text(label(p.Locale, "logout"))
		w.raw(`</button></form>`)

		w.raw(`<h2>`)
		w.text(label(p.Locale, "new_post"))
		w.raw(`</h2><form id="post-form"><input type="hidden" name="fileName">`)
		for _, f := range []struct{ name, key string }{
			{"title", "title"},
			{"excerpt", "excerpt"},
			{"category", "category"},
			{"tags", "tags_hint"},
			{"coverImage", "cover"},
		} {
			w.raw(`<label>`)
			w.text(label(p.Locale, f.key))
			w.raw(` <input name="`)
			w.raw(f.name)
			w.raw(`"></label>`)
		}
		w.raw(`<label>`)
		w.text(label(p.Locale, "content"))
		w.raw(` <textarea name="content" rows="16" required></textarea></label><label><input type="checkbox" name="published" value="true"> `)
		w.text(label(p.Locale, "publish"))
		w.raw(`</label> <button type="submit">`)
		w.text(label(p.Locale, "save"))
		w.raw(`</button><output id="desk-message"></output></form>`)

		w.raw(`<h2>`)
		w.text(label(p.Locale, "blog"))
		w.raw(`</h2><table class="desk-posts"><tbody>`)
		for _, post := range posts {
			w.raw(`<tr data-file="`)
			w.text(post.FileName)
			w.raw(`"><td>`)
			w.text(post.Title)
			if !post.Published {
				w.raw(` <em>`)
				w.text(label(p.Locale, "draft"))
				w.raw(`</em>`)
			}
			w.raw(`</td><td>`)
			w.text(post.Date)
			w.raw(`</td><td><button type="button" data-action="edit">`)
			w.text(label(p.Locale, "edit"))
			w.raw(`</button> <button type="button" data-action="delete">`)
			w.text(label(p.Locale, "delete"))
			w.raw(`</button></td></tr>`)
		}
		w.raw(`</tbody></table>`)

		w.raw(`<h2>`)
		w.text(label(p.Locale, "images"))
		w.raw(`</h2><form id="image-form"><input type="file" name="image" accept="image/*" required> <button type="submit">`)
		w.text(label(p.Locale, "upload"))
		w.raw(`</button></form><ul class="desk-images">`)
		for _, img := range images {
			w.raw(`<li data-file="`)
			w.text(img.Filename)
			w.raw(`"><img src="`)
			w.text(img.URL)
			w.raw(`" alt="" loading="lazy" width="120"> <code>`)
			w.text(img.URL)
			w.raw(`</code> <button type="button" data-action="delete-image">`)
			w.text(label(p.Locale, "delete"))
			w.raw(`</button></li>`)
		}
		w.raw(`</ul></section>`)
		w.raw(deskScript)
	}))
}

// apiPrefix is the locale prefix API calls go through, so responses come
// back in the page's language.
func apiPrefix(p littlehouse.Page) string {
	return strings.TrimSuffix(p.Link("/"), "/")
}

func csrfField(w *writer, p littlehouse.Page) {
	w.raw(`<input type="hidden" name="_csrf" value="`)
	w.text(p.CSRFToken)
	w.raw(`">`)
}

// deskScript sends the desk forms to the JSON API with the CSRF header.
const deskScript = `<script>
(function () {
  var desk = document.querySelector('.desk');
  var csrf = desk.dataset.csrf;
  var api = desk.dataset.prefix + '/api/study';
  var form = document.getElementById('post-form');
  var out = document.getElementById('desk-message');
  function call(method, url, body, json) {
    var headers = {'X-CSRF-Token': csrf, 'Accept': 'application/json'};
    if (json) { headers['Content-Type'] = 'application/json'; body = JSON.stringify(body); }
    return fetch(url, {method: method, headers: headers, body: body, credentials: 'same-origin'})
      .then(function (r) { return r.json(); });
  }
  form.addEventListener('submit', function (e) {
    e.preventDefault();
    var f = form.elements;
    var body = {
      title: f.title.value, excerpt: f.excerpt.value, category: f.category.value,
      tags: f.tags.value.split(/[,，]/).map(function (t) { return t.trim(); }).filter(Boolean),
      coverImage: f.coverImage.value, content: f.content.value, published: f.published.checked
    };
    var method = 'POST';
    if (f.fileName.value) { method = 'PUT'; body.fileName = f.fileName.value; }
    call(method, api + '/posts', body, true).then(function (r) {
      out.textContent = r.message || r.error;
      if (r.success) { setTimeout(function () { location.reload(); }, 600); }
    });
  });
  desk.addEventListener('click', function (e) {
    var action = e.target.dataset.action;
    if (!action) { return; }
    var file = e.target.closest('[data-file]').dataset.file;
    if (action === 'edit') {
      call('GET', api + '/posts?fileName=' + encodeURIComponent(file)).then(function (r) {
        var p = r.data, f = form.elements;
        f.fileName.value = p.fileName; f.title.value = p.title; f.excerpt.value = p.excerpt;
        f.category.value = p.category; f.tags.value = p.tags.join(', ');
        f.coverImage.value = p.coverImage || ''; f.content.value = p.content; f.published.checked = p.published;
        form.scrollIntoView();
      });
    } else if (action === 'delete' && confirm(file)) {
      call('DELETE', api + '/posts?fileName=' + encodeURIComponent(file)).then(function () { location.reload(); });
    } else if (action === 'delete-image' && confirm(file)) {
      call('DELETE', api + '/images/' + encodeURIComponent(file)).then(function () { location.reload(); });
    }
  });
  document.getElementById('image-form').addEventListener('submit', function (e) {
    e.preventDefault();
    call('POST', api + '/images', new FormData(e.target)).then(function () { location.reload(); });
  });
})();
</script>`
