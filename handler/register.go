package handler

import (
	"github.com/xaionaro-go/ffencoder/encoder"
)

// RegisterAll binds every handler of this package to its codec names.
func RegisterAll(m *encoder.Manager) {
	m.RegisterHandler("h264_nvenc", NewNVENCH264())
	m.RegisterHandler("hevc_nvenc", NewNVENCHEVC())
	m.RegisterHandler("h264_amf", NewAMFH264())
	m.RegisterHandler("hevc_amf", NewAMFHEVC())
	m.RegisterHandler("prores_aw", &ProResAW{})
	m.RegisterHandler("dnxhd", &DNxHR{})
}
