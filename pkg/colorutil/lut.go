package colorutil

// byteToLinear holds the linear-light value of every 8-bit sRGB level.
// 256 entries make the encoded-to-linear direction exact for byte input.
var byteToLinear [256]float64

// linearToByteFast maps quantized linear light to 8-bit sRGB for the live
// camera path. 4096 entries keep the error within one output level.
var linearToByteFast [4096]uint8

func init() {
	for i := range byteToLinear {
		byteToLinear[i] = SRGBToLinear(float64(i) / 255.0)
	}
	for i := range linearToByteFast {
		linearToByteFast[i] = LinearToByte(float64(i) / float64(len(linearToByteFast)-1))
	}
}

// ByteToLinear converts an 8-bit sRGB channel to linear light.
func ByteToLinear(b uint8) float64 {
	return byteToLinear[b]
}

// LinearToByteFast is the table-driven variant of LinearToByte.
func LinearToByteFast(l float64) uint8 {
	if l <= 0 {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return linearToByteFast[int(l*float64(len(linearToByteFast)-1)+0.5)]
}
