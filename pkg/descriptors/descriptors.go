package descriptors

import "github.com/trainboard/trainboard/pkg/traffic"

// UnknownName is shown for type and destination codes missing from the
// reference tables.
const UnknownName = "不明"

type Registry interface {
	TrainType(code string) (traffic.TrainType, bool)
	Destination(code string) (traffic.Destination, bool)
}

type Formatter struct {
	Registry Registry
}

func NewFormatter(registry Registry) Formatter {
	return Formatter{Registry: registry}
}

func (f Formatter) DescribeType(code string) traffic.TypeDescriptor {
	trainType, ok := f.Registry.TrainType(code)
	if !ok {
		return traffic.TypeDescriptor{Code: code, Name: UnknownName}
	}

	return traffic.TypeDescriptor{
		Code: trainType.Code,
		Name: trainType.Name,
		Icon: trainType.IconName,
	}
}

func (f Formatter) DescribeDestination(code string) traffic.DestinationDescriptor {
	destination, ok := f.Registry.Destination(code)
	if !ok {
		return traffic.DestinationDescriptor{Code: code, Name: UnknownName}
	}

	return traffic.DestinationDescriptor{
		Code: destination.Code,
		Name: destination.Name,
	}
}

// DescribeTrain formats a live position for display.
func (f Formatter) DescribeTrain(train traffic.TrainPosition) traffic.TrainDisplay {
	var carCount *string
	if train.CarCount != "" && train.CarCount != "0" {
		count := train.CarCount
		carCount = &count
	}

	return traffic.TrainDisplay{
		TrainNumber:  train.Number,
		Type:         f.DescribeType(train.TypeCode),
		Direction:    train.Direction,
		Destination:  f.DescribeDestination(train.DestinationCode),
		DelayMinutes: train.DelayMinutes,
		CarCount:     carCount,
		FreeTextInfo: train.FreeTextInfo,
		IsInStation:  train.IsInStation(),
		PositionCode: train.PositionFlag,
	}
}
