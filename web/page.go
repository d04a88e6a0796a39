package web

// pageTemplate is the single-page labeling UI. All state lives server-side;
// the page refreshes its view from /api/state after every command.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Frame Labeler - {{.ProjectName}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       background: #1a1a1a; color: #fff; min-height: 100vh; }
.container { display: flex; height: 100vh; }
.image-panel { flex: 1; display: flex; flex-direction: column; padding: 20px; }
.image-container { flex: 1; display: flex; align-items: center; justify-content: center;
                   background: #2a2a2a; border-radius: 10px; overflow: hidden; }
.image-container img { max-width: 100%; max-height: 100%; object-fit: contain; }
.info-bar { padding: 15px 0; display: flex; justify-content: space-between; }
.controls { width: 360px; background: #252525; padding: 20px; overflow-y: auto; }
.controls h2 { margin-bottom: 16px; font-size: 18px; }
.label-buttons { display: flex; flex-wrap: wrap; gap: 6px; margin-bottom: 16px; }
.label-btn { padding: 8px 12px; border: none; border-radius: 5px; cursor: pointer;
             font-size: 13px; color: #fff; background: #3b6ea5; }
.label-btn:hover { opacity: 0.85; }
.nav-buttons { display: flex; gap: 8px; margin-top: 16px; }
.nav-btn { flex: 1; padding: 12px; border: none; border-radius: 5px; cursor: pointer;
           font-size: 14px; color: #fff; }
.nav-btn.prev, .nav-btn.next { background: #555; }
.nav-btn.skip { background: #666; }
.nav-btn.delete { background: #c0392b; }
.custom-label { margin-top: 16px; display: flex; gap: 8px; }
.custom-label input { flex: 1; padding: 10px; border: none; border-radius: 5px;
                      background: #333; color: #fff; }
.custom-label button { padding: 10px 18px; background: #4caf50; color: #fff;
                       border: none; border-radius: 5px; cursor: pointer; }
.save-btn { width: 100%; padding: 14px; margin-top: 16px; background: #2196f3;
            color: #fff; border: none; border-radius: 5px; cursor: pointer;
            font-size: 15px; font-weight: bold; }
.progress { color: #888; font-size: 14px; }
.badge { display: inline-block; padding: 4px 10px; border-radius: 4px; margin-left: 8px;
         background: #666; font-size: 13px; }
.badge.labeled { background: #4caf50; }
.badge.deleted { background: #c0392b; }
.toast { position: fixed; bottom: 20px; left: 50%; transform: translateX(-50%);
         background: #4caf50; color: #fff; padding: 12px 26px; border-radius: 5px;
         display: none; z-index: 1000; }
</style>
</head>
<body>
<div class="container">
  <div class="image-panel">
    <div class="info-bar">
      <span id="sceneInfo">Scene -</span>
      <span class="progress" id="progressText"></span>
    </div>
    <div class="image-container"><img id="sceneImage" alt="scene"></div>
  </div>
  <div class="controls">
    <h2>{{.ProjectName}} &mdash; {{.SceneCount}} scenes</h2>
    <div class="label-buttons" id="labelButtons"></div>
    <div class="custom-label">
      <input id="customLabel" placeholder="Custom label">
      <button onclick="applyCustomLabel()">Apply</button>
    </div>
    <div class="nav-buttons">
      <button class="nav-btn prev" onclick="navigate('prev')">&larr; Prev</button>
      <button class="nav-btn skip" onclick="skipScene()">Skip</button>
      <button class="nav-btn delete" onclick="deleteScene()">Delete</button>
      <button class="nav-btn next" onclick="navigate('next')">Next &rarr;</button>
    </div>
    <button class="save-btn" onclick="saveNow()">Save</button>
  </div>
</div>
<div class="toast" id="toast"></div>
<script>
let state = null;

async function refresh() {
  const resp = await fetch('/api/state');
  state = await resp.json();
  render();
}

async function command(path, body) {
  const resp = await fetch(path, {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify(body || {})
  });
  if (resp.ok) {
    state = await resp.json();
    render();
  } else {
    showToast(await resp.text());
  }
}

function currentScene() {
  if (!state || state.at_end) return null;
  return state.scenes[state.cursor];
}

function render() {
  const info = document.getElementById('sceneInfo');
  const img = document.getElementById('sceneImage');
  const sceneObj = currentScene();

  if (sceneObj === null) {
    info.textContent = 'End of list' + (state.complete ? ' - all scenes labeled' : '');
    img.removeAttribute('src');
  } else {
    let badge = '<span class="badge">unlabeled</span>';
    if (state.deleted_scenes.includes(sceneObj.scene_id)) {
      badge = '<span class="badge deleted">deleted</span>';
    } else if (sceneObj.label) {
      badge = '<span class="badge labeled">' + sceneObj.label + '</span>';
    }
    info.innerHTML = 'Scene ' + sceneObj.scene_id + ' (' + sceneObj.frame_count + ' frames)' + badge;
    img.src = '/scene/' + sceneObj.scene_id;
  }

  const done = state.scenes.length - state.remaining;
  document.getElementById('progressText').textContent =
    done + '/' + state.scenes.length + ' done';

  const buttons = document.getElementById('labelButtons');
  if (!buttons.childElementCount) {
    for (const key of Object.keys(state.labels).sort()) {
      const btn = document.createElement('button');
      btn.className = 'label-btn';
      btn.textContent = key + ' - ' + state.labels[key];
      btn.onclick = () => assignLabel(key);
      buttons.appendChild(btn);
    }
  }
}

function assignLabel(key) { command('/api/assign', { key: key }); showToast(state.labels[key]); }
function applyCustomLabel() {
  const input = document.getElementById('customLabel');
  const label = input.value.trim();
  if (!label) return;
  input.value = '';
  command('/api/assign', { custom: label });
}
function skipScene() { command('/api/skip'); }
function deleteScene() { command('/api/delete'); }
function navigate(direction) { command('/api/navigate', { direction: direction }); }
function saveNow() { fetch('/api/save', { method: 'POST' }).then(() => showToast('Saved')); }

function showToast(message) {
  const toast = document.getElementById('toast');
  toast.textContent = message;
  toast.style.display = 'block';
  setTimeout(() => { toast.style.display = 'none'; }, 1500);
}

document.addEventListener('keydown', (e) => {
  if (e.target.tagName === 'INPUT') return;
  if (e.key === 'ArrowRight' || e.key === ' ') { e.preventDefault(); navigate('next'); }
  else if (e.key === 'ArrowLeft') { navigate('prev'); }
  else if (e.key === 'Delete' || e.key === 'Backspace') { e.preventDefault(); deleteScene(); }
  else if (state && state.labels[e.key]) { assignLabel(e.key); }
});

refresh();
</script>
</body>
</html>
`
