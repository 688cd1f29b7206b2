package nid

// AggregateConfidence is the mean confidence of all accepted detections,
// rounded to 4 decimals. No detections yields 0.
func AggregateConfidence(detections []Detection) float64 {
	if len(detections) == 0 {
		return 0
	}
	var sum float64
	for _, d := range detections {
		sum += clampUnit(d.Confidence)
	}
	return roundTo(sum/float64(len(detections)), 4)
}
