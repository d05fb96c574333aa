package main

// viewerPage is the single-page viewer UI: an upload control plus a
// live model list fed by the state websocket.
const viewerPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>glview</title>
<style>
  body { font-family: sans-serif; margin: 2em; background: #111; color: #eee; }
  h1 { font-size: 1.2em; }
  #models { list-style: none; padding: 0; }
  #models li { padding: 0.3em 0.6em; background: #222; margin: 0.2em 0; border-radius: 4px; }
  #env { max-width: 100%; border-radius: 4px; }
  button { padding: 0.4em 1em; }
</style>
</head>
<body>
<h1>glview &mdash; loaded models: <span id="count">0</span></h1>
<p>
  <button id="pick">Upload models&hellip;</button>
  <input id="files" type="file" accept=".glb,.gltf" multiple hidden>
</p>
<ul id="models"></ul>
<img id="env" src="/env.png" alt="" onerror="this.style.display='none'">
<script>
const pick = document.getElementById('pick');
const files = document.getElementById('files');
pick.onclick = () => files.click();
files.onchange = async () => {
  const form = new FormData();
  for (const f of files.files) form.append('models', f);
  await fetch('/upload', { method: 'POST', body: form });
  files.value = '';
};

function render(state) {
  document.getElementById('count').textContent = state.count;
  const ul = document.getElementById('models');
  ul.innerHTML = '';
  for (const name of state.models) {
    const li = document.createElement('li');
    li.textContent = name;
    ul.appendChild(li);
  }
}

const ws = new WebSocket('ws://' + location.host + '/ws');
ws.onmessage = (ev) => render(JSON.parse(ev.data));
</script>
</body>
</html>
`
