package bcn

// FourCC maps a DDS FourCC tag to its Format.
func FourCC(tag string) Format {
	switch tag {
	case "DXT1":
		return FormatBC1
	case "DXT2", "DXT3":
		return FormatBC2
	case "DXT4", "DXT5":
		return FormatBC3
	case "ATI1", "BC4U", "BC4S":
		return FormatBC4
	case "ATI2", "BC5U", "BC5S":
		return FormatBC5
	default:
		return FormatUnknown
	}
}

// DXGI maps a DX10 DXGI_FORMAT value to its Format, for the subset this
// codec supports.
func DXGI(dxgiFormat uint32) Format {
	switch dxgiFormat {
	case 71, 72:
		return FormatBC1
	case 74, 75:
		return FormatBC2
	case 77, 78:
		return FormatBC3
	case 80, 81:
		return FormatBC4
	case 83, 84:
		return FormatBC5
	default:
		return FormatUnknown
	}
}
