package libav

/*
#cgo pkg-config: libavcodec libavutil
#include <stdlib.h>
#include <libavcodec/avcodec.h>
#include <libavutil/opt.h>
#include <libavutil/pixdesc.h>

typedef struct {
	const char *long_name;
	int media_type;
	int intra_only;
} ffencoder_codec_info;

static int ffencoder_encoder_info(const char *name, ffencoder_codec_info *info) {
	const AVCodec *codec = avcodec_find_encoder_by_name(name);
	if (codec == NULL) {
		return -1;
	}
	info->long_name = codec->long_name;
	info->media_type = codec->type;
	const AVCodecDescriptor *desc = avcodec_descriptor_get(codec->id);
	info->intra_only = desc != NULL && (desc->props & AV_CODEC_PROP_INTRA_ONLY) != 0;
	return 0;
}

static const char *ffencoder_next_encoder(void **opaque) {
	const AVCodec *codec;
	while ((codec = av_codec_iterate(opaque)) != NULL) {
		if (av_codec_is_encoder(codec)) {
			return codec->name;
		}
	}
	return NULL;
}

// returns -1 if the packet carries no quality statistics
static int ffencoder_picture_type(const AVPacket *pkt) {
	size_t size = 0;
	const uint8_t *sd = av_packet_get_side_data(pkt, AV_PKT_DATA_QUALITY_STATS, &size);
	if (sd == NULL || size < 5) {
		return -1;
	}
	return sd[4];
}
// returns 1 if key is not an AVCodecContext option
static int ffencoder_set_context_option(AVCodecContext *ctx, const char *key, const char *value) {
	int ret = av_opt_set(ctx, key, value, 0);
	if (ret == AVERROR_OPTION_NOT_FOUND) {
		return 1;
	}
	return ret;
}
*/
import "C"

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/types"
	"github.com/xaionaro-go/unsafetools"
)

type encoderInfo struct {
	LongName  string
	MediaType types.MediaType
	IntraOnly bool
}

func lookupEncoderInfo(name string) (encoderInfo, bool) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	var info C.ffencoder_codec_info
	if C.ffencoder_encoder_info(cName, &info) != 0 {
		return encoderInfo{}, false
	}
	r := encoderInfo{
		MediaType: types.MediaTypeUnknown,
		IntraOnly: info.intra_only != 0,
	}
	if info.long_name != nil {
		r.LongName = C.GoString(info.long_name)
	}
	switch info.media_type {
	case C.AVMEDIA_TYPE_VIDEO:
		r.MediaType = types.MediaTypeVideo
	case C.AVMEDIA_TYPE_AUDIO:
		r.MediaType = types.MediaTypeAudio
	}
	return r, true
}

// encoderNames lists the registered encoders in libav's registration order.
func encoderNames() []string {
	var (
		opaque unsafe.Pointer
		names  []string
	)
	for {
		name := C.ffencoder_next_encoder(&opaque)
		if name == nil {
			return names
		}
		names = append(names, C.GoString(name))
	}
}

func findPixelFormat(name string) astiav.PixelFormat {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return astiav.PixelFormat(int(C.av_get_pix_fmt(cName)))
}

// qualityStatsPictureType reads the picture type the encoder reported in
// the AV_PKT_DATA_QUALITY_STATS side data.
func qualityStatsPictureType(pkt *astiav.Packet) (encoder.PictureType, bool) {
	cPkt := unsafetools.FieldByNameInValue(reflect.ValueOf(pkt), "c").Elem().UnsafePointer()
	if cPkt == nil {
		return encoder.PictureTypeNone, false
	}
	t := C.ffencoder_picture_type((*C.AVPacket)(cPkt))
	if t < 0 {
		return encoder.PictureTypeNone, false
	}
	return encoder.PictureType(t), true
}

// setContextOption sets a generic AVCodecContext option, without looking
// into the private options of the codec.
func setContextOption(codecContext *astiav.CodecContext, key, value string) (bool, error) {
	cCtx := unsafetools.FieldByNameInValue(reflect.ValueOf(codecContext), "c").Elem().UnsafePointer()
	if cCtx == nil {
		return false, fmt.Errorf("the codec context is not allocated")
	}
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))
	cValue := C.CString(value)
	defer C.free(unsafe.Pointer(cValue))
	switch ret := C.ffencoder_set_context_option((*C.AVCodecContext)(cCtx), cKey, cValue); {
	case ret == 1:
		return false, nil
	case ret < 0:
		return true, astiav.Error(int(ret))
	}
	return true, nil
}
