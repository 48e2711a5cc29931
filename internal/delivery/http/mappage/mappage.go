package mappage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/counter-map/internal/usecase/dto"
)

// pageData feeds the map page template. Markers are embedded as JSON so
// the page renders without waiting for the first API round-trip.
type pageData struct {
	Title       string
	MapboxToken string
	MarkersJSON template.JS
	Camera      template.JS
}

// Render produces the interactive map page HTML.
func Render(title, mapboxToken string, markers dto.MarkersResponse, cameraLat, cameraLon, zoom float64) ([]byte, error) {
	markersJSON, err := toJSON(markers.Markers)
	if err != nil {
		return nil, fmt.Errorf("encode markers: %w", err)
	}
	cameraJSON, err := toJSON(map[string]float64{
		"lat": cameraLat, "lon": cameraLon, "zoom": zoom,
	})
	if err != nil {
		return nil, fmt.Errorf("encode camera: %w", err)
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:       title,
		MapboxToken: mapboxToken,
		MarkersJSON: markersJSON,
		Camera:      cameraJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("render map page: %w", err)
	}
	return buf.Bytes(), nil
}

func toJSON(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>{{.Title}}</title>
  <link href="https://api.mapbox.com/mapbox-gl-js/v2.15.0/mapbox-gl.css" rel="stylesheet"/>
  <script src="https://api.mapbox.com/mapbox-gl-js/v2.15.0/mapbox-gl.js"></script>
  <style>
    body { margin: 0; font-family: Arial, sans-serif; }
    #map { position: absolute; top: 0; bottom: 0; width: 100%; }
    #search-box {
      position: absolute; top: 10px; left: 10px; z-index: 2;
      width: 280px; padding: 8px; border: 1px solid #999; border-radius: 4px;
    }
    #results {
      position: absolute; top: 46px; left: 10px; z-index: 2;
      width: 280px; background: #fff; border: 1px solid #ccc;
      max-height: 260px; overflow-y: auto; display: none;
    }
    #results div { padding: 6px 8px; cursor: pointer; }
    #results div.focused { background: #dce8ff; }
    #info-panel {
      position: absolute; top: 10px; right: 10px; z-index: 2;
      width: 300px; background: #fff; border: 1px solid #ccc;
      border-radius: 4px; padding: 12px; display: none;
    }
    #download-controls button { margin-right: 6px; }
  </style>
</head>
<body>
  <div id="map"></div>
  <input id="search-box" type="text" placeholder="Search counters or addresses..."/>
  <div id="results"></div>
  <div id="info-panel">
    <h3 id="panel-name"></h3>
    <p id="panel-details"></p>
    <div id="download-controls">
      <button onclick="exportMetadata('json')">JSON</button>
      <button onclick="exportMetadata('csv')">CSV</button>
      <button onclick="exportMetadata('xlsx')">XLSX</button>
      <button id="raw-button" onclick="exportRaw()">Raw data</button>
    </div>
  </div>
  <script>
    mapboxgl.accessToken = '{{.MapboxToken}}';
    const initialMarkers = {{.MarkersJSON}};
    const initialCamera = {{.Camera}};

    const map = new mapboxgl.Map({
      container: 'map',
      style: 'mapbox://styles/mapbox/streets-v12',
      center: [initialCamera.lon, initialCamera.lat],
      zoom: initialCamera.zoom
    });

    const markerHandles = {};
    for (const m of initialMarkers) {
      const el = new mapboxgl.Marker({ color: m.style.color, scale: m.style.scale })
        .setLngLat([m.longitude, m.latitude])
        .addTo(map);
      el.getElement().addEventListener('click', (e) => { e.stopPropagation(); selectCounter(m.counter_id); });
      el.getElement().addEventListener('dblclick', (e) => { e.stopPropagation(); openDashboard(m.counter_id); });
      markerHandles[m.counter_id] = el;
    }

    async function selectCounter(id) {
      const resp = await fetch('/api/v1/selection', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ counter_id: id })
      });
      const body = await resp.json();
      if (!resp.ok) return;
      selectedId = id;
      showPanel(body.data);
      await refreshMarkers();
    }

    function showPanel(sel) {
      if (!sel.counter) return;
      document.getElementById('panel-name').textContent = sel.counter.counter_name;
      document.getElementById('panel-details').textContent =
        'Vendor: ' + sel.counter.vendor + (sel.counter.counter_notes ? ' - ' + sel.counter.counter_notes : '');
      document.getElementById('info-panel').style.display = 'block';
      map.flyTo({ center: [sel.counter.longitude, sel.counter.latitude], zoom: 14 });
    }

    async function refreshMarkers() {
      const resp = await fetch('/api/v1/map/markers');
      const body = await resp.json();
      for (const m of body.data.markers) {
        const h = markerHandles[m.counter_id];
        if (h) { h.remove(); }
        const el = new mapboxgl.Marker({ color: m.style.color, scale: m.style.scale })
          .setLngLat([m.longitude, m.latitude])
          .addTo(map);
        el.getElement().addEventListener('click', (e) => { e.stopPropagation(); selectCounter(m.counter_id); });
        el.getElement().addEventListener('dblclick', (e) => { e.stopPropagation(); openDashboard(m.counter_id); });
        markerHandles[m.counter_id] = el;
      }
    }

    async function openDashboard(id) {
      const resp = await fetch('/api/v1/map/dashboard-link/' + id);
      const body = await resp.json();
      window.open(body.data.dashboard_url, '_blank');
    }

    function exportMetadata(format) {
      window.location = '/api/v1/export/metadata?format=' + format;
    }

    async function exportRaw() {
      const id = currentSelectionId();
      if (id === null) return;
      const btn = document.getElementById('raw-button');
      btn.disabled = true;
      try { window.location = '/api/v1/export/raw/' + id; }
      finally { btn.disabled = false; }
    }

    let selectedId = null;
    function currentSelectionId() { return selectedId; }

    // Search bar: keystrokes feed the debounced session, arrows and
    // enter drive the cursor server-side.
    const searchBox = document.getElementById('search-box');
    const resultList = document.getElementById('results');

    searchBox.addEventListener('input', async () => {
      await fetch('/api/v1/search/session/input', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ text: searchBox.value })
      });
      setTimeout(renderResults, 350);
    });

    searchBox.addEventListener('keydown', async (e) => {
      const keys = { ArrowDown: 'down', ArrowUp: 'up', Enter: 'enter', Escape: 'escape' };
      const key = keys[e.key];
      if (!key) return;
      e.preventDefault();
      await fetch('/api/v1/search/session/key', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ key: key })
      });
      renderResults();
    });

    async function renderResults() {
      const resp = await fetch('/api/v1/search/session');
      const body = await resp.json();
      const state = body.data;
      resultList.innerHTML = '';
      if (!state.open || state.results.length === 0) {
        resultList.style.display = 'none';
        return;
      }
      state.results.forEach((r, i) => {
        const div = document.createElement('div');
        div.textContent = r.label;
        if (i === state.cursor) div.classList.add('focused');
        div.addEventListener('click', () => {
          if (r.kind === 'counter') { selectCounter(r.counter.counter_id); selectedId = r.counter.counter_id; }
          else { geocode(r.query); }
          resultList.style.display = 'none';
        });
        resultList.appendChild(div);
      });
      resultList.style.display = 'block';
    }

    async function geocode(query) {
      const resp = await fetch('/api/v1/geocode', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ query: query })
      });
      if (!resp.ok) { alert('Address search failed'); return; }
      const body = await resp.json();
      map.flyTo({ center: [body.data.place.longitude, body.data.place.latitude], zoom: 13 });
      await refreshMarkers();
    }

    map.on('click', async () => {
      const resp = await fetch('/api/v1/selection/outside-click', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ region: 'map' })
      });
      const body = await resp.json();
      if (body.data.cleared) {
        document.getElementById('info-panel').style.display = 'none';
        selectedId = null;
        await refreshMarkers();
      }
    });
  </script>
</body>
</html>
`))
