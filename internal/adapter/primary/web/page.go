package web

import "net/http"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Volume Control</title>
    <style>
        body { font-family: sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; }
        .muted { color: #b00; }
        button { background: #007bff; color: white; border: none; padding: 10px 20px; border-radius: 5px; cursor: pointer; }
        button:hover { background: #0056b3; }
        input[type=range] { width: 100%; }
    </style>
</head>
<body>
    <h1>Volume Control</h1>
    <div class="info" id="status">Connecting...</div>
    <div>
        <input type="range" id="volume" min="0" max="100" step="1">
    </div>
    <div style="margin-top: 20px;">
        <button onclick="setVolume(0)">0%</button>
        <button onclick="setVolume(0.5)">50%</button>
        <button onclick="setVolume(1)">100%</button>
    </div>
    <script>
        const pending = new Map();
        let seq = 0;
        let ws;

        function exec(action, args) {
            return new Promise((resolve, reject) => {
                const id = String(++seq);
                pending.set(id, {resolve, reject});
                ws.send(JSON.stringify({id: id, action: action, args: args || []}));
            });
        }

        async function refresh() {
            try {
                const info = await exec('getVolumeInfo');
                document.getElementById('volume').value = info.volumePercentage;
                let status = 'Volume: ' + info.volumePercentage + '% (' + info.currentVolume + '/' + info.maxVolume + ')';
                if (info.isMuted) {
                    status += ' <span class="muted">muted</span>';
                }
                status += '<br>Platform: ' + info.platform + ' at ' + new Date(info.timestamp).toLocaleTimeString();
                document.getElementById('status').innerHTML = status;
            } catch (err) {
                document.getElementById('status').textContent = 'Error: ' + err;
            }
        }

        async function setVolume(fraction) {
            try {
                await exec('setVolume', [fraction]);
            } catch (err) {
                document.getElementById('status').textContent = 'Error: ' + err;
            }
            await refresh();
        }

        function connect() {
            ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
            ws.onmessage = (ev) => {
                const msg = JSON.parse(ev.data);
                const p = pending.get(msg.id);
                if (!p) return;
                pending.delete(msg.id);
                msg.success ? p.resolve(msg.result) : p.reject(msg.error);
            };
            ws.onopen = refresh;
            ws.onclose = () => setTimeout(connect, 2000);
        }

        document.getElementById('volume').addEventListener('change', (ev) => {
            setVolume(ev.target.value / 100);
        });

        connect();
        setInterval(() => { if (ws.readyState === 1) refresh(); }, 3000);
    </script>
</body>
</html>`
