package domain

import (
	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
)

// Интерфейсы внешних сервисов движка. Контроллер вышки получает их через
// конструктор и хранит только handle'ы подписок, никогда не указатели на
// слушателей.

// ObserverHandle - handle подписки на систему восприятия. 0 = нет подписки.
type ObserverHandle uint32

// ListenerHandle - handle подписки на раздражители. 0 = нет подписки.
type ListenerHandle uint32

// SubscriptionHandle - handle подписки на изменение трансформа сущности.
type SubscriptionHandle uint32

// ObserverParams описывает конус зрения наблюдателя.
type ObserverParams struct {
	Name       string
	Owner      types.EntityID
	EyePos     Vec3
	EyeDir     Vec3
	SightRange float64
	FOVCos     float64
}

// VisibilityCallback вызывается системой восприятия асинхронно (между тиками).
type VisibilityCallback func(observer ObserverHandle, observed types.EntityID, visible bool)

// PerceptionService - карта видимости движка.
type PerceptionService interface {
	RegisterObserver(params ObserverParams, cb VisibilityCallback) ObserverHandle
	UpdateObserverDir(h ObserverHandle, eyeDir Vec3)
	UnregisterObserver(h ObserverHandle)
}

// Stimulus - внешний раздражитель (звук, попадание, взрыв).
type Stimulus struct {
	Type   enums.StimulusType
	Pos    Vec3
	Radius float64
	Threat float64
	Sender types.EntityID
}

type StimulusCallback func(s Stimulus)

// StimulusService рассылает раздражители слушателям в радиусе.
type StimulusService interface {
	RegisterListener(owner types.EntityID, pos Vec3, radius float64, mask uint32, cb StimulusCallback) ListenerHandle
	UpdateListener(h ListenerHandle, pos Vec3, radius float64)
	UnregisterListener(h ListenerHandle)
}

// EntityService - доступ к сущностям движка, которые вышка только читает.
type EntityService interface {
	// ClientActor - единственная цель, которую отслеживает вышка (игрок).
	ClientActor() types.EntityID
	Position(id types.EntityID) (Vec3, bool)
	BoundsCenter(id types.EntityID) (Vec3, bool)
	Velocity(id types.EntityID) (Vec3, bool)
	ForwardDir(id types.EntityID) (Vec3, bool)
	// IsInvisibleFrom - стелс: цель невидима из точки pos.
	IsInvisibleFrom(id types.EntityID, pos Vec3) bool
	// LinkByName ищет именованную связь сущности owner. NilEntityID, если не найдена.
	LinkByName(owner types.EntityID, name string) types.EntityID
}

// TransformService - ориентация вышки и зависимые визуальные сущности.
type TransformService interface {
	LookAt(tower types.EntityID, target Vec3)
	SetAttachment(attachment types.EntityID, pos Vec3, yaw float64)
	SetHidden(id types.EntityID, hidden bool)
	SetLaser(tower types.EntityID, slot int, visible bool, from, to Vec3)
	SubscribeMoves(id types.EntityID, cb func(id types.EntityID, pos Vec3)) SubscriptionHandle
	Unsubscribe(h SubscriptionHandle)
}

// WeaponService - спавн и управление оружием, которым стреляет вышка.
type WeaponService interface {
	Spawn(owner types.EntityID, name, class string) (types.EntityID, bool)
	Remove(weapon types.EntityID)
	Class(weapon types.EntityID) string
	// ProjectileSpeed - скорость снаряда текущего режима огня. false, если оружия нет.
	ProjectileSpeed(weapon types.EntityID) (float64, bool)
	SetTransform(weapon types.EntityID, pos, dir Vec3)
	SetDestination(weapon types.EntityID, pos Vec3)
	// RefillClip выставляет боезапас равным размеру обоймы.
	RefillClip(weapon types.EntityID)
	Fire(weapon types.EntityID)
}

// AudioService - проигрывание именованных звуков. Пустое имя - no-op.
type AudioService interface {
	Play(cue string, owner types.EntityID)
	Stop(cue string, owner types.EntityID)
	SetOffset(cue string, owner types.EntityID, offset Vec3)
}

// GroupMember - состояние союзника по AI-группе.
type GroupMember struct {
	ID              types.EntityID
	Active          bool
	Alertness       int
	HasAttention    bool
	AttentionTarget Vec3
}

// GroupAlertService - AI-группы движка.
type GroupAlertService interface {
	Members(groupID int) []GroupMember
	// NotifyTargetSpotted передаёт стимул "цель замечена" одному союзнику.
	NotifyTargetSpotted(groupID int, ally types.EntityID, pos Vec3, radius float64)
}

// FlowEventSink получает события вышки (Burst, Shoot, PlayerDetected...).
type FlowEventSink interface {
	OnFlowEvent(tower types.EntityID, ev FlowEvent)
}

// StateChangeSink получает переходы автомата вышки (метрики, телеметрия).
type StateChangeSink interface {
	OnStateChange(tower types.EntityID, from, to enums.SentryState)
}

// Services - набор зависимостей контроллера. Nil-поля недопустимы, кроме States.
type Services struct {
	Perception PerceptionService
	Stimuli    StimulusService
	Entities   EntityService
	Transform  TransformService
	Weapons    WeaponService
	Audio      AudioService
	Groups     GroupAlertService
	Flow       FlowEventSink
	States     StateChangeSink
}
