package render

// Sakura palette
var (
	RgbBackground = RGB{22, 18, 30}    // Night plum
	RgbText       = RGB{240, 230, 235} // Warm white
	RgbTextDim    = RGB{150, 135, 150} // Muted mauve
	RgbTitle      = RGB{255, 183, 197} // Cherry blossom

	RgbPetalLight = RGB{255, 255, 255} // Petal core
	RgbPetalPink  = RGB{255, 193, 204} // #ffc1cc
	RgbPetalDeep  = RGB{255, 182, 193} // #ffb6c1

	RgbBarEmpty = RGB{50, 40, 58}
	RgbBarFill  = RGB{255, 158, 181}

	RgbPanelBg     = RGB{36, 28, 46}
	RgbPanelBorder = RGB{120, 90, 130}
	RgbPanelActive = RGB{255, 120, 160}
	RgbPanelCursor = RGB{60, 46, 74}

	RgbStatusBg   = RGB{30, 24, 40}
	RgbPingFast   = RGB{135, 206, 235} // #87ceeb
	RgbPingMedium = RGB{241, 196, 15}  // #f1c40f
	RgbPingSlow   = RGB{231, 76, 60}   // #e74c3c

	RgbRipple   = RGB{255, 214, 224}
	RgbRedirect = RGB{200, 60, 80}
)
