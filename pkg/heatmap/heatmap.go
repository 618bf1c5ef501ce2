// Package heatmap renders cleaned scan record sets as standalone HTML
// maps (Leaflet + leaflet.heat from CDN). The core pipeline has no
// dependency on this package - it only consumes a finished record set.
package heatmap

import (
	"fmt"
	"os"
	"strings"

	"github.com/ruslano69/cellscan/pkg/core/record"
)

// Map center used when the record set gives no better hint (München).
var defaultCenter = [2]float64{48.137154, 11.576124}

// point is one plottable record.
type point struct {
	Lat       float64
	Lon       float64
	RangeM    float64
	AvgSignal string
	Cell      string
}

// Heat writes a heat-layer map of all records to outputFile.
// Fails when the record set is empty - there is nothing to center on.
func Heat(rs record.RecordSet, outputFile string) error {
	points, err := extractPoints(rs)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("record set is empty, cannot generate heatmap")
	}

	// Center at the mean location
	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	centerLat := sumLat / float64(len(points))
	centerLon := sumLon / float64(len(points))

	var b strings.Builder
	writeHead(&b, "cellscan heatmap")
	writeMapOpen(&b, centerLat, centerLon, 12)

	b.WriteString("var heat = L.heatLayer([\n")
	for _, p := range points {
		fmt.Fprintf(&b, "[%v,%v],", p.Lat, p.Lon)
	}
	b.WriteString("\n], {radius: 15}).addTo(map);\n")

	writeTail(&b)
	return os.WriteFile(outputFile, []byte(b.String()), 0o644)
}

// Circles writes a circle map to outputFile: one circle per record,
// radius scaled from the measured range.
func Circles(rs record.RecordSet, outputFile string) error {
	points, err := extractPoints(rs)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("record set is empty, cannot generate circle map")
	}

	var b strings.Builder
	writeHead(&b, "cellscan circles")
	writeMapOpen(&b, defaultCenter[0], defaultCenter[1], 11)

	for _, p := range points {
		// range is meters; scale down so dense areas stay readable
		radius := p.RangeM / 10
		fmt.Fprintf(&b,
			"L.circle([%v,%v], {radius: %v, color: 'blue', fillColor: 'blue', fillOpacity: 0.4})"+
				".bindPopup('cell %s, signal %s').addTo(map);\n",
			p.Lat, p.Lon, radius, p.Cell, p.AvgSignal)
	}

	writeTail(&b)
	return os.WriteFile(outputFile, []byte(b.String()), 0o644)
}

// Difference writes a map contrasting a new record set against an old
// one: the old set as a gray heat layer, records whose cell id is not
// present in the old set as red markers.
func Difference(newSet, oldSet record.RecordSet, outputFile string) error {
	newPoints, err := extractPoints(newSet)
	if err != nil {
		return err
	}
	oldPoints, err := extractPoints(oldSet)
	if err != nil {
		return err
	}

	knownCells := make(map[string]bool, len(oldPoints))
	for _, p := range oldPoints {
		knownCells[p.Cell] = true
	}

	var b strings.Builder
	writeHead(&b, "cellscan difference")
	writeMapOpen(&b, defaultCenter[0], defaultCenter[1], 11)

	b.WriteString("var oldHeat = L.heatLayer([\n")
	for _, p := range oldPoints {
		fmt.Fprintf(&b, "[%v,%v],", p.Lat, p.Lon)
	}
	b.WriteString("\n], {radius: 15, gradient: {0.2: 'gray', 0.4: 'lightgray', 1: 'black'}}).addTo(map);\n")

	for _, p := range newPoints {
		if knownCells[p.Cell] {
			continue
		}
		fmt.Fprintf(&b,
			"L.circleMarker([%v,%v], {radius: 5, color: 'red', fill: true}).addTo(map);\n",
			p.Lat, p.Lon)
	}

	writeTail(&b)
	return os.WriteFile(outputFile, []byte(b.String()), 0o644)
}

// extractPoints pulls plottable values out of a projected record set.
// Rows with unparseable coordinates are skipped.
func extractPoints(rs record.RecordSet) ([]point, error) {
	latIdx := rs.Schema.FieldIndex("lat")
	lonIdx := rs.Schema.FieldIndex("lon")
	if latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("record set has no lat/lon fields")
	}
	rangeIdx := rs.Schema.FieldIndex("range")
	signalIdx := rs.Schema.FieldIndex("averageSignal")
	cellIdx := rs.Schema.FieldIndex("cell")

	converter := record.NewConverter()
	points := make([]point, 0, len(rs.Rows))

	for _, row := range rs.Rows {
		lat, err := converter.ParseFloat(row[latIdx])
		if err != nil {
			continue
		}
		lon, err := converter.ParseFloat(row[lonIdx])
		if err != nil {
			continue
		}

		p := point{Lat: lat, Lon: lon}
		if rangeIdx >= 0 {
			if r, err := converter.ParseFloat(row[rangeIdx]); err == nil {
				p.RangeM = r
			}
		}
		if signalIdx >= 0 {
			p.AvgSignal = row[signalIdx]
		}
		if cellIdx >= 0 {
			p.Cell = row[cellIdx]
		}
		points = append(points, p)
	}

	return points, nil
}

// writeHead emits the document head with Leaflet assets from CDN.
func writeHead(b *strings.Builder, title string) {
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(b, "<title>%s</title>\n", title)
	b.WriteString("<link rel=\"stylesheet\" href=\"https://unpkg.com/leaflet@1.9.4/dist/leaflet.css\">\n")
	b.WriteString("<script src=\"https://unpkg.com/leaflet@1.9.4/dist/leaflet.js\"></script>\n")
	b.WriteString("<script src=\"https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js\"></script>\n")
	b.WriteString("<style>html, body, #map { height: 100%; margin: 0; }</style>\n")
	b.WriteString("</head>\n<body>\n<div id=\"map\"></div>\n<script>\n")
}

// writeMapOpen emits map initialization with an OSM tile layer.
func writeMapOpen(b *strings.Builder, lat, lon float64, zoom int) {
	fmt.Fprintf(b, "var map = L.map('map').setView([%v, %v], %d);\n", lat, lon, zoom)
	b.WriteString("L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', " +
		"{attribution: '&copy; OpenStreetMap contributors'}).addTo(map);\n")
}

// writeTail closes the document.
func writeTail(b *strings.Builder) {
	b.WriteString("</script>\n</body>\n</html>\n")
}
