package remote

import "github.com/wrale/webos-remote/internal/tvremoted/link"

// SSAP command URIs
const (
	URIVolumeUp    = "ssap://audio/volumeUp"
	URIVolumeDown  = "ssap://audio/volumeDown"
	URISetVolume   = "ssap://audio/setVolume"
	URISetMute     = "ssap://audio/setMute"
	URIChannelUp   = "ssap://tv/channelUp"
	URIChannelDown = "ssap://tv/channelDown"
	URIOpenChannel = "ssap://tv/openChannel"
	URITurnOff     = "ssap://system/turnOff"
	URIHome        = "ssap://system/launcher"
	URIKeyEvent    = "ssap://com.webos.service.ime/sendKeyEvent"
	URILaunch      = "ssap://system.launcher/launch"
	URISwitchInput = "ssap://tv/switchInput"
	URICreateToast = "ssap://system.notifications/createToast"
	URIListApps    = "ssap://com.webos.applicationManager/listApps"
	URIListInputs  = "ssap://tv/getExternalInputList"
	URISystemInfo  = "ssap://system/getSystemInfo"
)

// Command is one resolved device request
type Command struct {
	URI     string
	Payload link.Payload
}

// well-known application short names
var apps = map[string]string{
	"netflix": "netflix",
	"youtube": "youtube.leanback.v4",
	"prime":   "amazon",
	"disney":  "com.disney.disneyplus-prod",
	"spotify": "spotify-beehive",
	"browser": "com.webos.app.browser",
}

// ResolveApp maps a short application name to its platform id.
// Unknown names are returned unchanged.
func ResolveApp(appID string) string {
	if id, ok := apps[appID]; ok {
		return id
	}
	return appID
}
