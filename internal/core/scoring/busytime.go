package scoring

// defaultBusyWeights is the static time-of-day congestion table, indexed by
// the local wall-clock hour of capture. Meal windows carry full weight,
// shoulders taper, late evening idles, overnight bottoms out.
//
//	11-14 and 18-21  1.0  (lunch and dinner peaks)
//	 9-10 and 15-17  0.7  (shoulders)
//	22-23            0.5  (late orders)
//	 0-8             0.3  (overnight)
var defaultBusyWeights = [24]float64{
	0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, // 00-08
	0.7, 0.7, // 09-10
	1.0, 1.0, 1.0, 1.0, // 11-14
	0.7, 0.7, 0.7, // 15-17
	1.0, 1.0, 1.0, 1.0, // 18-21
	0.5, 0.5, // 22-23
}
