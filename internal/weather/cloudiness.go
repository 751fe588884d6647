package weather

// cloudinessIcons maps diary icon file names to labels.
var cloudinessIcons = map[string]Cloudiness{
	"sun.png":   CloudinessClear,
	"sunc.png":  CloudinessSlightlyCloudy,
	"suncl.png": CloudinessVariable,
	"dull.png":  CloudinessOvercast,
}

// ResolveCloudiness maps an icon file name to a label. A cell without an
// icon carries no data; an icon we do not recognize is Unknown. The two must
// stay distinct.
func ResolveCloudiness(icon string, present bool) Cloudiness {
	if !present {
		return CloudinessNoData
	}
	if c, ok := cloudinessIcons[icon]; ok {
		return c
	}
	return CloudinessUnknown
}

// Cloudinesses lists every label in a stable order.
func Cloudinesses() []Cloudiness {
	return []Cloudiness{
		CloudinessClear,
		CloudinessSlightlyCloudy,
		CloudinessVariable,
		CloudinessOvercast,
		CloudinessUnknown,
		CloudinessNoData,
	}
}
