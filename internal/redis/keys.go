package redisx

import "fmt"

const ns = "partybus:v1"

func KeyDayAvailability(day string) string {
	return fmt.Sprintf("%s:day:%s:availability", ns, day)
}

func KeyDaySeatMap(day string) string {
	return fmt.Sprintf("%s:day:%s:seatmap", ns, day)
}

func KeyProfitReport() string {
	return ns + ":profits:report"
}

func ChannelDaysChanged() string {
	return ns + ":days:changed"
}
